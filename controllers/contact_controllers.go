package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

type ContactMessageController struct {
	DB *gorm.DB
}

func NewContactMessageController(db *gorm.DB) *ContactMessageController {
	return &ContactMessageController{DB: db}
}

// GetMessages -> GET /admin/contact-messages[?status=&q=]
func (mc *ContactMessageController) GetMessages(c *gin.Context) {
	page := utils.ParsePage(c)
	query := mc.DB.Model(&models.ContactMessage{})

	if status := c.Query("status"); status != "" {
		if !models.IsValidMessageStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, status))
			return
		}
		query = query.Where("status = ?", status)
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ? OR LOWER(reference) LIKE ?", like, like, like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var messages []models.ContactMessage
	if err := query.Order("created_at DESC, id DESC").Offset(page.Offset()).Limit(page.Size).Find(&messages).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondPage(c, "List of contact messages", messages, page, total)
}

// UpdateMessageStatus -> PUT /admin/contact-messages/:id/status
func (mc *ContactMessageController) UpdateMessageStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}
	if !models.IsValidMessageStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, body.Status))
		return
	}

	var msg models.ContactMessage
	if err := mc.DB.First(&msg, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := mc.DB.Model(&msg).Update("status", body.Status).Error; err != nil {
		respondDBError(c, err)
		return
	}
	msg.Status = body.Status

	middlewares.RecordActivity(c, "update_status", "contact_message", msg.ID, "%s -> %s", msg.Reference, body.Status)
	utils.RespondJSON(c, http.StatusOK, "Message updated", msg)
}

// DeleteMessage -> DELETE /admin/contact-messages/:id
func (mc *ContactMessageController) DeleteMessage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var msg models.ContactMessage
	if err := mc.DB.First(&msg, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := mc.DB.Delete(&msg).Error; err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "delete", "contact_message", msg.ID, msg.Reference)
	utils.RespondJSON(c, http.StatusOK, "Message deleted", nil)
}
