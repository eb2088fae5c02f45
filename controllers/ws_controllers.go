package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

type WSController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewWSController allows handshakes from the listed origins, or any origin
// when the list contains "*".
func NewWSController(h *hub.Hub, origins []string) *WSController {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	return &WSController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// DashboardSocket -> GET /admin/ws?token=
func (wc *WSController) DashboardSocket(c *gin.Context) {
	email := c.GetString(middlewares.ContextAdminEmail)
	if email == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	wc.Hub.Register(ws, email)
	utils.InfoLogger.WithField("admin", email).Info("dashboard connected")

	// reads only detect disconnects; dashboards never send anything
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.Hub.Unregister(ws)
	utils.InfoLogger.WithField("admin", email).Info("dashboard disconnected")
}
