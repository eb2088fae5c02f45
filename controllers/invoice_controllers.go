package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/pricing"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/services"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

const defaultInvoiceDueDays = 14

type InvoiceController struct {
	DB       *gorm.DB
	Catalog  *pricing.Catalog
	Business config.Business
	Hub      ChangeBroadcaster
}

func NewInvoiceController(db *gorm.DB, catalog *pricing.Catalog, business config.Business, h ChangeBroadcaster) *InvoiceController {
	return &InvoiceController{DB: db, Catalog: catalog, Business: business, Hub: h}
}

// InvoiceNumber formats INV-YYYYMMDD-000123.
func InvoiceNumber(issued time.Time, id uint) string {
	return fmt.Sprintf("INV-%s-%06d", issued.Format("20060102"), id)
}

// InvoiceItemsFromBooking rebuilds the quote breakdown of a booking as
// invoice lines. When the catalog has changed since the booking was taken
// the stored total wins and a single summary line is used.
func InvoiceItemsFromBooking(cat *pricing.Catalog, b models.InstantBooking) []models.InvoiceItem {
	summary := []models.InvoiceItem{{
		Description: fmt.Sprintf("Cleaning service %s (%s, %s)", b.Reference, b.PropertyTier, b.ServiceType),
		Quantity:    1,
		UnitPrice:   b.TotalPrice,
		Total:       b.TotalPrice,
	}}

	quote, err := pricing.Calculate(cat, pricing.Selection{
		Tier:        b.PropertyTier,
		ServiceType: b.ServiceType,
		Extras:      b.Extras,
		Frequency:   b.Frequency,
	})
	if err != nil || math.Abs(quote.Total-b.TotalPrice) > 0.005 {
		return summary
	}

	var items []models.InvoiceItem
	line := func(desc string, amount float64) {
		items = append(items, models.InvoiceItem{Description: desc, Quantity: 1, UnitPrice: amount, Total: amount})
	}
	for _, l := range quote.Lines {
		line(l.Label, l.Amount)
	}
	for _, l := range quote.Bundles {
		line(l.Label+" bundle discount", l.Amount)
	}
	if quote.FrequencyDiscount > 0 {
		label := quote.Frequency
		if f, ok := cat.Frequency(quote.Frequency); ok {
			label = fmt.Sprintf("%s discount (%.0f%%)", f.Label, f.Percent)
		}
		line(label, -quote.FrequencyDiscount)
	}
	return items
}

type invoiceItemRequest struct {
	Description string  `json:"description" binding:"required,max=255"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	UnitPrice   float64 `json:"unit_price"`
}

type invoiceRequest struct {
	BookingID      *uint                `json:"booking_id"`
	CustomerName   string               `json:"customer_name" binding:"max=100"`
	CustomerEmail  string               `json:"customer_email" binding:"omitempty,email"`
	BillingAddress string               `json:"billing_address" binding:"max=255"`
	Items          []invoiceItemRequest `json:"items" binding:"dive"`
	TaxRate        float64              `json:"tax_rate" binding:"gte=0,lte=100"`
	DueDays        int                  `json:"due_days" binding:"gte=0,lte=365"`
	Notes          string               `json:"notes" binding:"max=2000"`
}

// GetAllInvoices -> GET /admin/invoices[?status=]
func (ic *InvoiceController) GetAllInvoices(c *gin.Context) {
	page := utils.ParsePage(c)
	query := ic.DB.Model(&models.Invoice{})
	if status := c.Query("status"); status != "" {
		if !models.IsValidInvoiceStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, status))
			return
		}
		query = query.Where("status = ?", status)
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?", like, like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var invoices []models.Invoice
	if err := query.Preload("Items").Order("issued_at DESC, id DESC").Offset(page.Offset()).Limit(page.Size).Find(&invoices).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondPage(c, "List of invoices", invoices, page, total)
}

// GetInvoiceByID -> GET /admin/invoices/:id
func (ic *InvoiceController) GetInvoiceByID(c *gin.Context) {
	inv, ok := ic.find(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice detail", inv)
}

// CreateInvoice -> POST /admin/invoices. With booking_id the customer and
// lines come from the booking; otherwise customer and items are required.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	now := time.Now()
	dueDays := req.DueDays
	if dueDays == 0 {
		dueDays = defaultInvoiceDueDays
	}
	inv := models.Invoice{
		// placeholder until the id is known
		Number:         "PENDING-" + uuid.NewString(),
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		BillingAddress: strings.TrimSpace(req.BillingAddress),
		TaxRate:        req.TaxRate,
		Currency:       ic.Catalog.Currency,
		Status:         models.InvoiceDraft,
		Notes:          req.Notes,
		IssuedAt:       now,
		DueAt:          now.AddDate(0, 0, dueDays),
	}

	if req.BookingID != nil {
		var booking models.InstantBooking
		if err := ic.DB.First(&booking, *req.BookingID).Error; err != nil {
			respondDBError(c, err)
			return
		}
		inv.BookingID = &booking.ID
		inv.Currency = booking.Currency
		if inv.CustomerName == "" {
			inv.CustomerName = booking.Name
		}
		if inv.CustomerEmail == "" {
			inv.CustomerEmail = booking.Email
		}
		if inv.BillingAddress == "" {
			inv.BillingAddress = strings.Join(nonEmpty(booking.AddressLine1, booking.AddressLine2, booking.City, booking.Postcode), ", ")
		}
		inv.Items = InvoiceItemsFromBooking(ic.Catalog, booking)
	}

	for _, it := range req.Items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    qty,
			UnitPrice:   utils.RoundMoney(it.UnitPrice),
			Total:       utils.RoundMoney(float64(qty) * it.UnitPrice),
		})
	}

	if inv.CustomerName == "" || inv.CustomerEmail == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("customer_name and customer_email are required without booking_id"))
		return
	}
	if len(inv.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invoice needs at least one item"))
		return
	}

	for _, it := range inv.Items {
		inv.Subtotal += it.Total
	}
	inv.Subtotal = utils.RoundMoney(inv.Subtotal)
	inv.Tax = utils.RoundMoney(inv.Subtotal * inv.TaxRate / 100)
	inv.Total = utils.RoundMoney(inv.Subtotal + inv.Tax)

	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		inv.Number = InvoiceNumber(inv.IssuedAt, inv.ID)
		return tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Update("number", inv.Number).Error
	})
	if err != nil {
		respondDBError(c, err)
		return
	}

	middlewares.RecordActivity(c, "create", "invoice", inv.ID, "%s %s", inv.Number, utils.FormatCurrency(inv.Total, inv.Currency))
	ic.broadcast(inv)
	utils.RespondJSON(c, http.StatusCreated, "Invoice created", inv)
}

// UpdateInvoiceStatus -> PUT /admin/invoices/:id/status
func (ic *InvoiceController) UpdateInvoiceStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}
	if !models.IsValidInvoiceStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidStatus, body.Status))
		return
	}

	inv, ok := ic.find(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{"status": body.Status}
	if body.Status == models.InvoicePaid {
		updates["paid_at"] = time.Now()
	} else {
		updates["paid_at"] = nil
	}
	if err := ic.DB.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(updates).Error; err != nil {
		respondDBError(c, err)
		return
	}
	inv.Status = body.Status
	inv.PaidAt = nil
	if body.Status == models.InvoicePaid {
		paid := updates["paid_at"].(time.Time)
		inv.PaidAt = &paid
	}

	middlewares.RecordActivity(c, "update_status", "invoice", inv.ID, "%s -> %s", inv.Number, body.Status)
	ic.broadcast(inv)
	utils.RespondJSON(c, http.StatusOK, "Invoice status updated", inv)
}

// DownloadInvoicePDF -> GET /admin/invoices/:id/pdf
func (ic *InvoiceController) DownloadInvoicePDF(c *gin.Context) {
	inv, ok := ic.find(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := services.RenderInvoicePDF(&buf, inv, ic.Business); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, inv.Number))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (ic *InvoiceController) find(c *gin.Context) (models.Invoice, bool) {
	var inv models.Invoice
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return inv, false
	}
	if err := ic.DB.Preload("Items").First(&inv, id).Error; err != nil {
		respondDBError(c, err)
		return inv, false
	}
	return inv, true
}

func (ic *InvoiceController) broadcast(inv models.Invoice) {
	if ic.Hub != nil {
		ic.Hub.Broadcast(hub.EventInvoiceUpdated, inv)
	}
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}
