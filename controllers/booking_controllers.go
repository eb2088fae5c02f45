package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var instantBookingSearch = []string{"name", "email", "reference", "postcode"}

// ChangeBroadcaster pushes admin-side changes to live dashboards.
type ChangeBroadcaster interface {
	Broadcast(event string, data interface{})
}

type InstantBookingController struct {
	DB  *gorm.DB
	Hub ChangeBroadcaster
}

func NewInstantBookingController(db *gorm.DB, h ChangeBroadcaster) *InstantBookingController {
	return &InstantBookingController{DB: db, Hub: h}
}

func (bc *InstantBookingController) broadcast(event string, data interface{}) {
	if bc.Hub != nil {
		bc.Hub.Broadcast(event, data)
	}
}

// ListBookings -> GET /admin/instant-bookings
func (bc *InstantBookingController) ListBookings(c *gin.Context) {
	page := utils.ParsePage(c)

	query, err := bookingFilters(c, bc.DB.Model(&models.InstantBooking{}), instantBookingSearch, "service_date")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var bookings []models.InstantBooking
	err = query.Preload("Cleaner").
		Order("service_date DESC, id DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&bookings).Error
	if err != nil {
		respondDBError(c, err)
		return
	}

	utils.RespondPage(c, "List of instant bookings", bookings, page, total)
}

// GetBooking -> GET /admin/instant-bookings/:id
func (bc *InstantBookingController) GetBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.InstantBooking
	if err := bc.DB.Preload("Cleaner").First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var assignments []models.CleanerAssignment
	if err := bc.DB.Preload("Cleaner").Where("booking_id = ?", id).Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var invoices []models.Invoice
	if err := bc.DB.Where("booking_id = ?", id).Order("id DESC").Find(&invoices).Error; err != nil {
		respondDBError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Instant booking", gin.H{
		"booking":     booking,
		"assignments": assignments,
		"invoices":    invoices,
	})
}

// UpdateStatus -> PUT /admin/instant-bookings/:id/status. Any known label
// may replace any other.
func (bc *InstantBookingController) UpdateStatus(c *gin.Context) {
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
	if !models.IsValidBookingStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, body.Status))
		return
	}

	var booking models.InstantBooking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	previous := booking.Status
	if err := bc.DB.Model(&booking).Update("status", body.Status).Error; err != nil {
		respondDBError(c, err)
		return
	}
	booking.Status = body.Status

	middlewares.RecordActivity(c, "update_status", "instant_booking", booking.ID, "%s: %s -> %s", booking.Reference, previous, body.Status)
	bc.broadcast(hub.EventBookingUpdated, booking)

	utils.InfoLogger.WithFields(logrus.Fields{
		"reference": booking.Reference,
		"from":      previous,
		"to":        body.Status,
	}).Info("booking status changed")
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// UpdateNotes -> PUT /admin/instant-bookings/:id/notes
func (bc *InstantBookingController) UpdateNotes(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		AdminNotes string `json:"admin_notes" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	var booking models.InstantBooking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := bc.DB.Model(&booking).Update("admin_notes", body.AdminNotes).Error; err != nil {
		respondDBError(c, err)
		return
	}
	booking.AdminNotes = body.AdminNotes

	middlewares.RecordActivity(c, "update_notes", "instant_booking", booking.ID, booking.Reference)
	utils.RespondJSON(c, http.StatusOK, "Booking notes updated", booking)
}

// AssignCleaner -> POST /admin/instant-bookings/:id/assign
func (bc *InstantBookingController) AssignCleaner(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		CleanerID uint     `json:"cleaner_id" binding:"required"`
		Earnings  *float64 `json:"earnings" binding:"omitempty,gte=0"`
		Notes     string   `json:"notes" binding:"max=2000"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	var booking models.InstantBooking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var cleaner models.Cleaner
	if err := bc.DB.First(&cleaner, body.CleanerID).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if !cleaner.Active {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cleaner is not active"))
		return
	}

	earnings := utils.RoundMoney(cleaner.HourlyRate * booking.Hours)
	if body.Earnings != nil {
		earnings = utils.RoundMoney(*body.Earnings)
	}

	assignment := models.CleanerAssignment{
		BookingID:  booking.ID,
		CleanerID:  cleaner.ID,
		Status:     models.AssignmentAssigned,
		Earnings:   earnings,
		Notes:      body.Notes,
		AssignedAt: time.Now(),
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		return tx.Model(&booking).Updates(map[string]interface{}{
			"cleaner_id": cleaner.ID,
			"status":     models.StatusAssigned,
		}).Error
	})
	if err != nil {
		respondDBError(c, err)
		return
	}

	booking.CleanerID = &cleaner.ID
	booking.Cleaner = &cleaner
	booking.Status = models.StatusAssigned
	assignment.Cleaner = &cleaner

	middlewares.RecordActivity(c, "assign_cleaner", "instant_booking", booking.ID, "%s -> %s", booking.Reference, cleaner.Name)
	bc.broadcast(hub.EventBookingUpdated, booking)

	utils.RespondJSON(c, http.StatusCreated, "Cleaner assigned", gin.H{
		"booking":    booking,
		"assignment": assignment,
	})
}

// DeleteBooking -> DELETE /admin/instant-bookings/:id
func (bc *InstantBookingController) DeleteBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.InstantBooking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.CleanerAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Invoice{}).Where("booking_id = ?", booking.ID).Update("booking_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
	if err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "delete", "instant_booking", booking.ID, booking.Reference)
	bc.broadcast(hub.EventBookingDeleted, gin.H{"id": booking.ID, "reference": booking.Reference})

	utils.RespondJSON(c, http.StatusOK, "Booking deleted", nil)
}
