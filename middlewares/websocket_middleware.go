package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

// WebSocketAuthMiddleware reads the JWT from ?token= since browsers cannot
// set headers on a websocket handshake.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAdminEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}
