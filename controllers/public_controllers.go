package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/pricing"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/services"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

const (
	bookingRefPrefix = "FP"
	contactRefPrefix = "MSG"
)

// SubmissionNotifier is told about every stored public submission.
type SubmissionNotifier interface {
	BookingCreated(ctx context.Context, b models.InstantBooking)
	ContactCreated(ctx context.Context, m models.ContactMessage)
}

// PublicController serves the website funnel: catalog, quotes, contact
// form and bookings.
type PublicController struct {
	DB                *gorm.DB
	Catalog           *pricing.Catalog
	Verifier          *services.RecaptchaVerifier
	RecaptchaRequired bool
	Notifier          SubmissionNotifier
	Now               func() time.Time
}

func NewPublicController(db *gorm.DB, catalog *pricing.Catalog, verifier *services.RecaptchaVerifier, required bool, notifier SubmissionNotifier) *PublicController {
	return &PublicController{
		DB:                db,
		Catalog:           catalog,
		Verifier:          verifier,
		RecaptchaRequired: required,
		Notifier:          notifier,
		Now:               time.Now,
	}
}

// GetCatalog -> GET /api/pricing/catalog
func (pc *PublicController) GetCatalog(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Pricing catalog", pc.Catalog)
}

// CreateQuote -> POST /api/quotes
func (pc *PublicController) CreateQuote(c *gin.Context) {
	var sel pricing.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := pricing.Calculate(pc.Catalog, sel)
	if err != nil {
		if isSelectionError(err) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Quote calculated", quote)
}

type contactRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=100"`
	Email          string `json:"email" binding:"required,email,max=255"`
	Phone          string `json:"phone" binding:"required,phone"`
	Subject        string `json:"subject" binding:"max=150"`
	Message        string `json:"message" binding:"required,min=10,max=2000"`
	RecaptchaToken string `json:"recaptcha_token"`
}

// SubmitContact -> POST /api/contact
func (pc *PublicController) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if _, ok := pc.checkRecaptcha(c, req.RecaptchaToken); !ok {
		return
	}

	msg := models.ContactMessage{
		Reference: utils.NewReference(contactRefPrefix),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Status:    models.MessageUnread,
	}
	if err := pc.DB.Create(&msg).Error; err != nil {
		respondDBError(c, err)
		return
	}

	if pc.Notifier != nil {
		pc.Notifier.ContactCreated(c.Request.Context(), msg)
	}

	utils.InfoLogger.WithField("reference", msg.Reference).Info("contact message stored")
	utils.RespondJSON(c, http.StatusCreated, "Thanks, we will be in touch shortly", gin.H{
		"reference": msg.Reference,
	})
}

type instantBookingRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=100"`
	Email          string   `json:"email" binding:"required,email,max=255"`
	Phone          string   `json:"phone" binding:"required,phone"`
	AddressLine1   string   `json:"address_line1" binding:"required,max=255"`
	AddressLine2   string   `json:"address_line2" binding:"max=255"`
	City           string   `json:"city" binding:"required,max=100"`
	Postcode       string   `json:"postcode" binding:"required,max=20"`
	PlaceID        string   `json:"place_id" binding:"max=255"`
	PropertyTier   string   `json:"property_tier" binding:"required"`
	ServiceType    string   `json:"service_type"`
	Frequency      string   `json:"frequency"`
	Extras         []string `json:"extras"`
	Bundle         bool     `json:"bundle"`
	BundleCode     string   `json:"bundle_code"`
	ServiceDate    string   `json:"service_date" binding:"required,datetime=2006-01-02"`
	TimeSlot       string   `json:"time_slot" binding:"max=20"`
	Notes          string   `json:"notes" binding:"max=2000"`
	RecaptchaToken string   `json:"recaptcha_token"`
}

// CreateInstantBooking -> POST /api/instant-bookings. Any price sent by the
// client is ignored; the quote is recomputed from the catalog.
func (pc *PublicController) CreateInstantBooking(c *gin.Context) {
	var req instantBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	serviceDate, err := parseFutureDate(req.ServiceDate, pc.Now())
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.ServiceType == "" {
		req.ServiceType = "standard"
	}
	if req.Frequency == "" {
		req.Frequency = "one-off"
	}
	quote, err := pricing.Calculate(pc.Catalog, pricing.Selection{
		Tier:        req.PropertyTier,
		ServiceType: req.ServiceType,
		Extras:      req.Extras,
		Frequency:   req.Frequency,
		Bundle:      req.Bundle,
		BundleCode:  req.BundleCode,
	})
	if err != nil {
		if isSelectionError(err) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	score, ok := pc.checkRecaptcha(c, req.RecaptchaToken)
	if !ok {
		return
	}

	bundles := make([]string, 0, len(quote.Bundles))
	for _, b := range quote.Bundles {
		bundles = append(bundles, b.Code)
	}

	booking := models.InstantBooking{
		Reference:      utils.NewReference(bookingRefPrefix),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		AddressLine1:   strings.TrimSpace(req.AddressLine1),
		AddressLine2:   strings.TrimSpace(req.AddressLine2),
		City:           strings.TrimSpace(req.City),
		Postcode:       strings.ToUpper(strings.TrimSpace(req.Postcode)),
		PlaceID:        req.PlaceID,
		PropertyTier:   quote.Tier,
		ServiceType:    quote.ServiceType,
		Frequency:      quote.Frequency,
		Extras:         models.StringList(quote.Extras),
		Bundle:         strings.Join(bundles, ","),
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		TotalPrice:     quote.Total,
		Currency:       quote.Currency,
		Hours:          quote.Hours,
		ServiceDate:    serviceDate,
		TimeSlot:       req.TimeSlot,
		CustomerNotes:  strings.TrimSpace(req.Notes),
		Status:         models.StatusPending,
		RecaptchaScore: score,
	}
	if err := pc.DB.Create(&booking).Error; err != nil {
		respondDBError(c, err)
		return
	}

	if pc.Notifier != nil {
		pc.Notifier.BookingCreated(c.Request.Context(), booking)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reference": booking.Reference,
		"total":     booking.TotalPrice,
	}).Info("instant booking stored")
	utils.RespondJSON(c, http.StatusCreated, "Booking received", gin.H{
		"reference": booking.Reference,
		"status":    booking.Status,
		"quote":     quote,
		"booking":   booking,
	})
}

type legacyBookingRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Phone         string `json:"phone" binding:"required,phone"`
	Address       string `json:"address" binding:"max=255"`
	Postcode      string `json:"postcode" binding:"max=20"`
	ServiceType   string `json:"service_type" binding:"required,max=50"`
	PropertySize  string `json:"property_size" binding:"max=30"`
	PreferredDate string `json:"preferred_date" binding:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferred_time" binding:"max=20"`
	Message       string `json:"message" binding:"max=2000"`
}

// CreateBooking -> POST /api/bookings, the older free-form request form.
func (pc *PublicController) CreateBooking(c *gin.Context) {
	var req legacyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	preferred, err := parseFutureDate(req.PreferredDate, pc.Now())
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking := models.Booking{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		Postcode:      strings.ToUpper(strings.TrimSpace(req.Postcode)),
		ServiceType:   req.ServiceType,
		PropertySize:  req.PropertySize,
		PreferredDate: preferred,
		PreferredTime: req.PreferredTime,
		Message:       strings.TrimSpace(req.Message),
		Status:        models.StatusPending,
	}

	// best-effort estimate when the form used catalog codes
	if quote, err := pricing.Calculate(pc.Catalog, pricing.Selection{Tier: req.PropertySize, ServiceType: req.ServiceType}); err == nil {
		booking.EstimatedPrice = quote.Total
	}

	if err := pc.DB.Create(&booking).Error; err != nil {
		respondDBError(c, err)
		return
	}

	utils.InfoLogger.WithField("booking_id", booking.ID).Info("booking request stored")
	utils.RespondJSON(c, http.StatusCreated, "Booking request received", booking)
}

// LookupInstantBooking -> GET /api/instant-bookings/:reference?email=
// Both reference and email must match; a mismatch is reported as not found.
func (pc *PublicController) LookupInstantBooking(c *gin.Context) {
	reference := strings.ToUpper(strings.TrimSpace(c.Param("reference")))
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("email query parameter is required"))
		return
	}

	var booking models.InstantBooking
	err := pc.DB.Where("reference = ? AND email = ?", reference, email).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
			return
		}
		respondDBError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking status", gin.H{
		"reference":     booking.Reference,
		"status":        booking.Status,
		"service_date":  booking.ServiceDate.Format(dateLayout),
		"time_slot":     booking.TimeSlot,
		"property_tier": booking.PropertyTier,
		"service_type":  booking.ServiceType,
		"frequency":     booking.Frequency,
		"extras":        booking.Extras,
		"total_price":   booking.TotalPrice,
		"currency":      booking.Currency,
	})
}

// checkRecaptcha enforces the bot check on form submissions. It writes the
// response itself and returns ok=false when the request must stop.
func (pc *PublicController) checkRecaptcha(c *gin.Context, token string) (*float64, bool) {
	if !pc.Verifier.Enabled() {
		return nil, true
	}
	if token == "" {
		if pc.RecaptchaRequired {
			utils.RespondError(c, http.StatusBadRequest, services.ErrMissingToken)
			return nil, false
		}
		return nil, true
	}

	result, err := pc.Verifier.Verify(c.Request.Context(), token, c.ClientIP())
	switch {
	case errors.Is(err, services.ErrVerificationFailed):
		utils.RespondError(c, http.StatusBadRequest, ErrRecaptchaFailed)
		return nil, false
	case err != nil:
		if pc.RecaptchaRequired {
			utils.ErrorLogger.WithError(err).Error("recaptcha unavailable, rejecting submission")
			utils.RespondError(c, http.StatusServiceUnavailable, err)
			return nil, false
		}
		utils.ErrorLogger.WithError(err).Warn("recaptcha unavailable, accepting submission")
		return nil, true
	}

	if !result.Success {
		utils.InfoLogger.WithFields(logrus.Fields{
			"score": result.Score,
			"ip":    c.ClientIP(),
		}).Warn("submission rejected by recaptcha score")
		utils.RespondError(c, http.StatusBadRequest, ErrRecaptchaFailed)
		return nil, false
	}
	score := result.Score
	return &score, true
}
