package middlewares

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.ErrorLogger.WithFields(logrus.Fields{
					"panic":  err,
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"stack":  string(debug.Stack()),
				}).Error("panic recovered")
				utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
