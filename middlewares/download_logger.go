package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

// DownloadLogger records generated documents (invoice PDFs, CSV exports).
func DownloadLogger(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := logrus.Fields{
			"document": kind,
			"id":       c.Param("id"),
			"admin":    c.GetString(ContextAdminEmail),
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			utils.InfoLogger.WithFields(fields).WithField("bytes", c.Writer.Size()).Info("document generated")
		} else {
			utils.ErrorLogger.WithFields(fields).WithField("status", c.Writer.Status()).Error("document generation failed")
		}
	}
}
