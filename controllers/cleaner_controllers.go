package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var errCleanerHasAssignments = errors.New("cleaner has assignments; deactivate instead of deleting")

type CleanerController struct {
	DB  *gorm.DB
	Hub ChangeBroadcaster
}

func NewCleanerController(db *gorm.DB, h ChangeBroadcaster) *CleanerController {
	return &CleanerController{DB: db, Hub: h}
}

type cleanerRequest struct {
	Name       string  `json:"name" binding:"required,min=2,max=100"`
	Email      string  `json:"email" binding:"required,email,max=255"`
	Phone      string  `json:"phone" binding:"omitempty,phone"`
	HourlyRate float64 `json:"hourly_rate" binding:"gte=0"`
	Active     *bool   `json:"active"`
	Notes      string  `json:"notes" binding:"max=2000"`
}

// GetAllCleaners -> GET /admin/cleaners[?active=true]
func (cc *CleanerController) GetAllCleaners(c *gin.Context) {
	query := cc.DB.Model(&models.Cleaner{})
	switch c.Query("active") {
	case "true":
		query = query.Where("active = ?", true)
	case "false":
		query = query.Where("active = ?", false)
	}

	var cleaners []models.Cleaner
	if err := query.Order("name").Find(&cleaners).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of cleaners", cleaners)
}

// CreateCleaner -> POST /admin/cleaners
func (cc *CleanerController) CreateCleaner(c *gin.Context) {
	var req cleanerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cleaner := models.Cleaner{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		HourlyRate: utils.RoundMoney(req.HourlyRate),
		Active:     true,
		Notes:      req.Notes,
	}
	inactive := req.Active != nil && !*req.Active

	var existing int64
	if err := cc.DB.Model(&models.Cleaner{}).Where("email = ?", cleaner.Email).Count(&existing).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("a cleaner with this email already exists"))
		return
	}

	// gorm skips zero values that have a column default, so an inactive
	// cleaner needs an explicit update after insert
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cleaner).Error; err != nil {
			return err
		}
		if !inactive {
			return nil
		}
		if err := tx.Model(&cleaner).Update("active", false).Error; err != nil {
			return err
		}
		cleaner.Active = false
		return nil
	})
	if err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "create", "cleaner", cleaner.ID, cleaner.Name)
	utils.RespondJSON(c, http.StatusCreated, "Cleaner created successfully", cleaner)
}

// GetCleanerByID -> GET /admin/cleaners/:id
func (cc *CleanerController) GetCleanerByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cleaner models.Cleaner
	if err := cc.DB.First(&cleaner, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var stats struct {
		Assignments int64   `json:"assignments"`
		Completed   int64   `json:"completed"`
		Earnings    float64 `json:"earnings"`
	}
	completed := cc.DB.Model(&models.CleanerAssignment{}).
		Where("cleaner_id = ? AND status = ?", id, models.AssignmentCompleted).
		Session(&gorm.Session{})
	if err := cc.DB.Model(&models.CleanerAssignment{}).Where("cleaner_id = ?", id).Count(&stats.Assignments).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := completed.Count(&stats.Completed).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := completed.Select("COALESCE(SUM(earnings), 0)").Row().Scan(&stats.Earnings); err != nil {
		respondDBError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cleaner", gin.H{
		"cleaner": cleaner,
		"stats":   stats,
	})
}

// UpdateCleaner -> PUT /admin/cleaners/:id
func (cc *CleanerController) UpdateCleaner(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req cleanerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var cleaner models.Cleaner
	if err := cc.DB.First(&cleaner, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var clash int64
	if err := cc.DB.Model(&models.Cleaner{}).Where("email = ? AND id <> ?", email, id).Count(&clash).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if clash > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("a cleaner with this email already exists"))
		return
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"email":       email,
		"phone":       strings.TrimSpace(req.Phone),
		"hourly_rate": utils.RoundMoney(req.HourlyRate),
		"notes":       req.Notes,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if err := cc.DB.Model(&cleaner).Updates(updates).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := cc.DB.First(&cleaner, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "update", "cleaner", cleaner.ID, cleaner.Name)
	utils.RespondJSON(c, http.StatusOK, "Cleaner updated successfully", cleaner)
}

// DeleteCleaner -> DELETE /admin/cleaners/:id. Cleaners with assignment
// history are kept; deactivate them instead.
func (cc *CleanerController) DeleteCleaner(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cleaner models.Cleaner
	if err := cc.DB.First(&cleaner, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var assigned int64
	if err := cc.DB.Model(&models.CleanerAssignment{}).Where("cleaner_id = ?", id).Count(&assigned).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if assigned > 0 {
		utils.RespondError(c, http.StatusConflict, errCleanerHasAssignments)
		return
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.InstantBooking{}).Where("cleaner_id = ?", id).Update("cleaner_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cleaner).Error
	})
	if err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "delete", "cleaner", cleaner.ID, cleaner.Name)
	utils.RespondJSON(c, http.StatusOK, "Cleaner deleted successfully", nil)
}

// GetCleanerAssignments -> GET /admin/cleaners/:id/assignments
func (cc *CleanerController) GetCleanerAssignments(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cleaner models.Cleaner
	if err := cc.DB.First(&cleaner, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var assignments []models.CleanerAssignment
	if err := cc.DB.Preload("Booking").Where("cleaner_id = ?", id).Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaner assignments", assignments)
}

// ListAssignments -> GET /admin/assignments[?cleaner_id=&status=]
func (cc *CleanerController) ListAssignments(c *gin.Context) {
	page := utils.ParsePage(c)
	query := cc.DB.Model(&models.CleanerAssignment{})

	if status := c.Query("status"); status != "" {
		if !models.IsValidAssignmentStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, status))
			return
		}
		query = query.Where("status = ?", status)
	}
	if cleanerID := c.Query("cleaner_id"); cleanerID != "" {
		query = query.Where("cleaner_id = ?", cleanerID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var assignments []models.CleanerAssignment
	err := query.Preload("Cleaner").Preload("Booking").
		Order("assigned_at DESC, id DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&assignments).Error
	if err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondPage(c, "List of assignments", assignments, page, total)
}

// UpdateAssignment -> PUT /admin/assignments/:id
func (cc *CleanerController) UpdateAssignment(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status   string   `json:"status"`
		Earnings *float64 `json:"earnings" binding:"omitempty,gte=0"`
		Notes    *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}
	if body.Status != "" && !models.IsValidAssignmentStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, body.Status))
		return
	}

	var assignment models.CleanerAssignment
	if err := cc.DB.First(&assignment, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if body.Status != "" {
		updates["status"] = body.Status
		if body.Status == models.AssignmentCompleted {
			updates["completed_at"] = time.Now()
		} else {
			updates["completed_at"] = nil
		}
	}
	if body.Earnings != nil {
		updates["earnings"] = utils.RoundMoney(*body.Earnings)
	}
	if body.Notes != nil {
		updates["notes"] = *body.Notes
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	if err := cc.DB.Model(&assignment).Updates(updates).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := cc.DB.Preload("Cleaner").Preload("Booking").First(&assignment, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "update", "cleaner_assignment", assignment.ID, "status=%s earnings=%.2f", assignment.Status, assignment.Earnings)
	if cc.Hub != nil {
		cc.Hub.Broadcast(hub.EventAssignmentUpdated, assignment)
	}
	utils.RespondJSON(c, http.StatusOK, "Assignment updated", assignment)
}
