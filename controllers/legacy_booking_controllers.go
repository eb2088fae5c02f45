package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var legacyBookingSearch = []string{"name", "email", "postcode", "service_type"}

// BookingController manages the older free-form booking requests.
type BookingController struct {
	DB *gorm.DB
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{DB: db}
}

// ListBookings -> GET /admin/bookings
func (bc *BookingController) ListBookings(c *gin.Context) {
	page := utils.ParsePage(c)

	query, err := bookingFilters(c, bc.DB.Model(&models.Booking{}), legacyBookingSearch, "preferred_date")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC, id DESC").Offset(page.Offset()).Limit(page.Size).Find(&bookings).Error; err != nil {
		respondDBError(c, err)
		return
	}

	utils.RespondPage(c, "List of bookings", bookings, page, total)
}

// GetBooking -> GET /admin/bookings/:id
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking", booking)
}

// UpdateStatus -> PUT /admin/bookings/:id/status
func (bc *BookingController) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status     string  `json:"status" binding:"required"`
		AdminNotes *string `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}
	if !models.IsValidBookingStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, body.Status))
		return
	}

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	previous := booking.Status
	updates := map[string]interface{}{"status": body.Status}
	if body.AdminNotes != nil {
		updates["admin_notes"] = *body.AdminNotes
	}
	if err := bc.DB.Model(&booking).Updates(updates).Error; err != nil {
		respondDBError(c, err)
		return
	}
	booking.Status = body.Status
	if body.AdminNotes != nil {
		booking.AdminNotes = *body.AdminNotes
	}

	middlewares.RecordActivity(c, "update_status", "booking", booking.ID, "%s -> %s", previous, body.Status)
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// DeleteBooking -> DELETE /admin/bookings/:id
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := bc.DB.Delete(&booking).Error; err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "delete", "booking", booking.ID, "%s <%s>", booking.Name, booking.Email)
	utils.RespondJSON(c, http.StatusOK, "Booking deleted", nil)
}
