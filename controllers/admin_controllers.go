package controllers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/services"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

const (
	defaultRevenueMonths = 6
	maxRevenueMonths     = 24
	upcomingLimit        = 5
)

type AdminController struct {
	DB       *gorm.DB
	Currency string
	Now      func() time.Time
}

func NewAdminController(db *gorm.DB, currency string) *AdminController {
	return &AdminController{DB: db, Currency: currency, Now: time.Now}
}

type DashboardStats struct {
	TotalBookings         int64                   `json:"total_bookings"`
	BookingsByStatus      map[string]int64        `json:"bookings_by_status"`
	TodayBookings         int64                   `json:"today_bookings"`
	NewToday              int64                   `json:"new_today"`
	CompletedRevenue      float64                 `json:"completed_revenue"`
	Currency              string                  `json:"currency"`
	UnreadMessages        int64                   `json:"unread_messages"`
	ActiveCleaners        int64                   `json:"active_cleaners"`
	PendingLegacyBookings int64                   `json:"pending_legacy_bookings"`
	Upcoming              []models.InstantBooking `json:"upcoming"`
}

// GetDashboardStats -> GET /admin/dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.dashboardStats()
	if err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (ac *AdminController) dashboardStats() (*DashboardStats, error) {
	today := startOfDay(ac.Now())
	tomorrow := today.AddDate(0, 0, 1)

	stats := &DashboardStats{
		BookingsByStatus: make(map[string]int64, len(models.BookingStatuses)),
		Currency:         ac.Currency,
	}
	for _, s := range models.BookingStatuses {
		stats.BookingsByStatus[s] = 0
	}

	var rows []struct {
		Status string
		Total  int64
	}
	err := ac.DB.Model(&models.InstantBooking{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.BookingsByStatus[r.Status] = r.Total
		stats.TotalBookings += r.Total
	}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TodayBookings, ac.DB.Model(&models.InstantBooking{}).
			Where("service_date >= ? AND service_date < ?", today, tomorrow).
			Where("status <> ?", models.StatusCancelled)},
		{&stats.NewToday, ac.DB.Model(&models.InstantBooking{}).
			Where("created_at >= ? AND created_at < ?", today, tomorrow)},
		{&stats.UnreadMessages, ac.DB.Model(&models.ContactMessage{}).
			Where("status = ?", models.MessageUnread)},
		{&stats.ActiveCleaners, ac.DB.Model(&models.Cleaner{}).
			Where("active = ?", true)},
		{&stats.PendingLegacyBookings, ac.DB.Model(&models.Booking{}).
			Where("status = ?", models.StatusPending)},
	}
	for _, cnt := range counts {
		if err := cnt.query.Count(cnt.dst).Error; err != nil {
			return nil, err
		}
	}

	var revenue float64
	err = ac.DB.Model(&models.InstantBooking{}).
		Where("status = ?", models.StatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&revenue)
	if err != nil {
		return nil, err
	}
	stats.CompletedRevenue = utils.RoundMoney(revenue)

	err = ac.DB.Preload("Cleaner").
		Where("service_date >= ?", today).
		Where("status NOT IN ?", []string{models.StatusCompleted, models.StatusCancelled}).
		Order("service_date ASC, id ASC").
		Limit(upcomingLimit).
		Find(&stats.Upcoming).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// revenuePoints loads completed bookings for the requested window (?months).
func (ac *AdminController) revenuePoints(c *gin.Context) ([]services.RevenuePoint, error) {
	months := defaultRevenueMonths
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRevenueMonths {
			return nil, fmt.Errorf("months must be between 1 and %d", maxRevenueMonths)
		}
		months = n
	}

	now := ac.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	var bookings []models.InstantBooking
	err := ac.DB.Select("id", "status", "total_price", "service_date").
		Where("status = ? AND service_date >= ?", models.StatusCompleted, start).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return services.MonthlyRevenue(bookings, now, months), nil
}

// GetRevenue -> GET /admin/dashboard/revenue[?months=]
func (ac *AdminController) GetRevenue(c *gin.Context) {
	points, err := ac.revenuePoints(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Monthly revenue", gin.H{
		"currency": ac.Currency,
		"months":   points,
	})
}

// GetRevenueChart -> GET /admin/dashboard/revenue-chart.png[?months=]
func (ac *AdminController) GetRevenueChart(c *gin.Context) {
	points, err := ac.revenuePoints(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderRevenueChart(&buf, points, ac.Currency); err != nil {
		if errors.Is(err, services.ErrNoChartData) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.ErrorLogger.WithError(err).Error("revenue chart failed")
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

var bookingCSVHeader = []string{
	"reference", "created_at", "service_date", "time_slot", "status",
	"name", "email", "phone", "address", "city", "postcode",
	"property_tier", "service_type", "frequency", "extras", "bundle",
	"subtotal", "discount", "total_price", "currency", "cleaner",
}

// ExportBookingsCSV -> GET /admin/reports/bookings.csv
// Accepts the same filters as the instant booking list.
func (ac *AdminController) ExportBookingsCSV(c *gin.Context) {
	query, err := bookingFilters(c, ac.DB.Model(&models.InstantBooking{}), instantBookingSearch, "service_date")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var bookings []models.InstantBooking
	if err := query.Preload("Cleaner").Order("service_date ASC, id ASC").Find(&bookings).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(bookingCSVHeader)
	for _, b := range bookings {
		_ = w.Write(bookingCSVRow(b))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.csv", ac.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func bookingCSVRow(b models.InstantBooking) []string {
	address := b.AddressLine1
	if b.AddressLine2 != "" {
		address += ", " + b.AddressLine2
	}
	cleaner := ""
	if b.Cleaner != nil {
		cleaner = b.Cleaner.Name
	}
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	return []string{
		b.Reference,
		b.CreatedAt.Format(time.RFC3339),
		b.ServiceDate.Format("2006-01-02"),
		b.TimeSlot,
		b.Status,
		b.Name,
		b.Email,
		b.Phone,
		address,
		b.City,
		b.Postcode,
		b.PropertyTier,
		b.ServiceType,
		b.Frequency,
		strings.Join(b.Extras, ";"),
		b.Bundle,
		money(b.Subtotal),
		money(b.Discount),
		money(b.TotalPrice),
		b.Currency,
		cleaner,
	}
}
