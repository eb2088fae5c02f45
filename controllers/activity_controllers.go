package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

type ActivityLogController struct {
	DB *gorm.DB
}

func NewActivityLogController(db *gorm.DB) *ActivityLogController {
	return &ActivityLogController{DB: db}
}

// GetActivityLogs -> GET /admin/activity-logs[?entity_type=&action=&admin_id=]
func (alc *ActivityLogController) GetActivityLogs(c *gin.Context) {
	page := utils.ParsePage(c)
	query := alc.DB.Model(&models.ActivityLog{})
	if v := c.Query("entity_type"); v != "" {
		query = query.Where("entity_type = ?", v)
	}
	if v := c.Query("action"); v != "" {
		query = query.Where("action = ?", v)
	}
	if v := c.Query("admin_id"); v != "" {
		query = query.Where("admin_id = ?", v)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC, id DESC").Offset(page.Offset()).Limit(page.Size).Find(&logs).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondPage(c, "Activity logs", logs, page, total)
}
