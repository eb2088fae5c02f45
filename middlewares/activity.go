package middlewares

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

const contextActivity = "activity"

type activity struct {
	Action     string
	EntityType string
	EntityID   uint
	Detail     string
}

// RecordActivity marks the current request as an admin mutation. The entry
// is written by ActivityLogger once the handler has answered with 2xx.
func RecordActivity(c *gin.Context, action, entityType string, entityID uint, detail string, args ...interface{}) {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	c.Set(contextActivity, activity{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
}

func ActivityLogger(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		v, ok := c.Get(contextActivity)
		if !ok {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status > 299 {
			return
		}
		a := v.(activity)

		entry := models.ActivityLog{
			ActorEmail: c.GetString(ContextAdminEmail),
			Action:     a.Action,
			EntityType: a.EntityType,
			EntityID:   a.EntityID,
			Detail:     a.Detail,
			IP:         c.ClientIP(),
		}
		if id := AdminID(c); id != 0 {
			entry.AdminID = &id
		}

		if err := db.Create(&entry).Error; err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"action": a.Action,
				"entity": a.EntityType,
				"id":     a.EntityID,
			}).WithError(err).Error("failed to write activity log")
		}
	}
}
