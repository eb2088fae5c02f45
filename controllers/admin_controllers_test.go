package controllers_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/controllers"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/services"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

func todayAt(hour int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.Local)
}

func setupAdminRouter(db *gorm.DB, now time.Time) *gin.Engine {
	ac := controllers.NewAdminController(db, "GBP")
	ac.Now = func() time.Time { return now }
	mc := controllers.NewContactMessageController(db)
	alc := controllers.NewActivityLogController(db)

	r := adminEngine(db)
	r.GET("/admin/dashboard", ac.GetDashboardStats)
	r.GET("/admin/dashboard/revenue", ac.GetRevenue)
	r.GET("/admin/dashboard/revenue-chart.png", ac.GetRevenueChart)
	r.GET("/admin/reports/bookings.csv", ac.ExportBookingsCSV)
	r.GET("/admin/contact-messages", mc.GetMessages)
	r.PUT("/admin/contact-messages/:id/status", mc.UpdateMessageStatus)
	r.DELETE("/admin/contact-messages/:id", mc.DeleteMessage)
	r.GET("/admin/activity-logs", alc.GetActivityLogs)
	return r
}

// seedDashboard creates two completed jobs, one job today, one cancelled
// job today and one confirmed job later this week.
func seedDashboard(t *testing.T, db *gorm.DB) []models.InstantBooking {
	t.Helper()
	now := time.Now()
	bookings := []models.InstantBooking{
		seedBooking(t, db, models.InstantBooking{Name: "Ann Archer", Status: models.StatusCompleted, TotalPrice: 120.5, ServiceDate: now.AddDate(0, 0, -2)}),
		seedBooking(t, db, models.InstantBooking{Name: "Ben Baker", Status: models.StatusCompleted, TotalPrice: 80, ServiceDate: now.AddDate(0, 0, -1)}),
		seedBooking(t, db, models.InstantBooking{Name: "Cat Cole", Status: models.StatusPending, TotalPrice: 105, ServiceDate: todayAt(12)}),
		seedBooking(t, db, models.InstantBooking{Name: "Dan Drew", Status: models.StatusCancelled, TotalPrice: 90, ServiceDate: todayAt(12)}),
		seedBooking(t, db, models.InstantBooking{Name: "Eve East", Status: models.StatusConfirmed, TotalPrice: 135, ServiceDate: now.AddDate(0, 0, 3)}),
	}

	active := models.Cleaner{Name: "Maria", Email: "maria@freshplus.test", HourlyRate: 14, Active: true}
	inactive := models.Cleaner{Name: "Tom", Email: "tom@freshplus.test", HourlyRate: 13}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Model(&inactive).Update("active", false).Error)

	for _, s := range []string{models.MessageUnread, models.MessageUnread, models.MessageRead} {
		require.NoError(t, db.Create(&models.ContactMessage{
			Reference: utils.NewReference("CM"),
			Name:      "Sam Smith",
			Email:     "sam@example.com",
			Subject:   "Carpet question",
			Message:   "Do you clean rugs?",
			Status:    s,
		}).Error)
	}

	for _, s := range []string{models.StatusPending, models.StatusConfirmed} {
		require.NoError(t, db.Create(&models.Booking{
			Name: "Legacy Lee", Email: "lee@example.com", Phone: "07700 900456",
			ServiceType: "deep", Status: s, PreferredDate: now.AddDate(0, 0, 5),
		}).Error)
	}
	return bookings
}

func TestDashboardStats(t *testing.T) {
	db := setupDB(t)
	bookings := seedDashboard(t, db)
	r := setupAdminRouter(db, time.Now())

	w := doJSON(r, http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats controllers.DashboardStats
	decode(t, w, &stats)
	assert.Equal(t, int64(5), stats.TotalBookings)
	assert.Equal(t, int64(2), stats.BookingsByStatus[models.StatusCompleted])
	assert.Equal(t, int64(1), stats.BookingsByStatus[models.StatusCancelled])
	assert.Equal(t, int64(0), stats.BookingsByStatus[models.StatusRescheduled])
	assert.Len(t, stats.BookingsByStatus, len(models.BookingStatuses))
	assert.Equal(t, int64(1), stats.TodayBookings)
	assert.Equal(t, int64(5), stats.NewToday)
	assert.Equal(t, 200.5, stats.CompletedRevenue)
	assert.Equal(t, "GBP", stats.Currency)
	assert.Equal(t, int64(2), stats.UnreadMessages)
	assert.Equal(t, int64(1), stats.ActiveCleaners)
	assert.Equal(t, int64(1), stats.PendingLegacyBookings)

	require.Len(t, stats.Upcoming, 2)
	assert.Equal(t, bookings[2].Reference, stats.Upcoming[0].Reference)
	assert.Equal(t, bookings[4].Reference, stats.Upcoming[1].Reference)
}

func TestDashboardStatsEmpty(t *testing.T) {
	db := setupDB(t)
	r := setupAdminRouter(db, time.Now())

	w := doJSON(r, http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats controllers.DashboardStats
	decode(t, w, &stats)
	assert.Zero(t, stats.TotalBookings)
	assert.Zero(t, stats.CompletedRevenue)
	assert.Empty(t, stats.Upcoming)
}

func TestRevenueEndpoints(t *testing.T) {
	db := setupDB(t)
	r := setupAdminRouter(db, time.Now())

	w := doJSON(r, http.MethodGet, "/admin/dashboard/revenue-chart.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	seedDashboard(t, db)

	for _, months := range []string{"0", "25", "abc", "-1"} {
		w := doJSON(r, http.MethodGet, "/admin/dashboard/revenue?months="+months, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, months)
	}

	w = doJSON(r, http.MethodGet, "/admin/dashboard/revenue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var def struct {
		Months []services.RevenuePoint `json:"months"`
	}
	decode(t, w, &def)
	assert.Len(t, def.Months, 6)

	w = doJSON(r, http.MethodGet, "/admin/dashboard/revenue?months=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Currency string                  `json:"currency"`
		Months   []services.RevenuePoint `json:"months"`
	}
	decode(t, w, &body)
	assert.Equal(t, "GBP", body.Currency)
	require.Len(t, body.Months, 3)
	assert.Equal(t, time.Now().Format("2006-01"), body.Months[2].Month)

	var revenue float64
	var jobs int
	for _, p := range body.Months {
		revenue += p.Revenue
		jobs += p.Jobs
	}
	assert.InDelta(t, 200.5, revenue, 0.001)
	assert.Equal(t, 2, jobs)

	w = doJSON(r, http.MethodGet, "/admin/dashboard/revenue-chart.png?months=3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestExportBookingsCSV(t *testing.T) {
	db := setupDB(t)
	bookings := seedDashboard(t, db)
	now := time.Now()
	r := setupAdminRouter(db, now)

	w := doJSON(r, http.MethodGet, "/admin/reports/bookings.csv?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bookings-"+now.Format("20060102")+".csv")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "reference", rows[0][0])
	assert.Len(t, rows[0], 21)
	assert.Equal(t, bookings[0].Reference, rows[1][0])
	assert.Equal(t, bookings[1].Reference, rows[2][0])
	assert.Equal(t, "120.50", rows[1][18])
	assert.Equal(t, "GBP", rows[1][19])

	w = doJSON(r, http.MethodGet, "/admin/reports/bookings.csv?q=eve", nil)
	rows, err = csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Eve East", rows[1][5])

	w = doJSON(r, http.MethodGet, "/admin/reports/bookings.csv?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactMessagesAdmin(t *testing.T) {
	db := setupDB(t)
	seedDashboard(t, db)
	r := setupAdminRouter(db, time.Now())

	w := doJSON(r, http.MethodGet, "/admin/contact-messages?status=unread", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p page[models.ContactMessage]
	decode(t, w, &p)
	assert.Equal(t, int64(2), p.Total)
	require.Len(t, p.Items, 2)

	w = doJSON(r, http.MethodGet, "/admin/contact-messages?status=spam", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/admin/contact-messages?q=CARPET", nil)
	decode(t, w, &p)
	assert.Equal(t, int64(3), p.Total)

	target := p.Items[0]
	path := fmt.Sprintf("/admin/contact-messages/%d", target.ID)

	w = doJSON(r, http.MethodPut, path+"/status", map[string]string{"status": "spam"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, path+"/status", map[string]string{"status": models.MessageArchived})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var msg models.ContactMessage
	decode(t, w, &msg)
	assert.Equal(t, models.MessageArchived, msg.Status)

	w = doJSON(r, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var remaining int64
	require.NoError(t, db.Model(&models.ContactMessage{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)

	assert.Equal(t, []string{"contact_message:update_status", "contact_message:delete"}, activityActions(t, db))
}

func TestGetActivityLogs(t *testing.T) {
	db := setupDB(t)
	r := setupAdminRouter(db, time.Now())

	admin := uint(1)
	other := uint(2)
	logs := []models.ActivityLog{
		{AdminID: &admin, ActorEmail: "owner@freshplus.test", Action: "create", EntityType: "cleaner", EntityID: 1},
		{AdminID: &admin, ActorEmail: "owner@freshplus.test", Action: "delete", EntityType: "cleaner", EntityID: 1},
		{AdminID: &other, ActorEmail: "staff@freshplus.test", Action: "update_status", EntityType: "booking", EntityID: 4},
	}
	require.NoError(t, db.Create(&logs).Error)

	tests := []struct {
		query string
		total int64
	}{
		{"", 3},
		{"?entity_type=cleaner", 2},
		{"?action=update_status", 1},
		{"?admin_id=2", 1},
		{"?entity_type=cleaner&action=delete", 1},
		{"?entity_type=invoice", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/admin/activity-logs"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var p page[models.ActivityLog]
			decode(t, w, &p)
			assert.Equal(t, tt.total, p.Total)
			assert.Len(t, p.Items, int(tt.total))
		})
	}
}

func TestDashboardSocket(t *testing.T) {
	h := hub.New()
	wc := controllers.NewWSController(h, []string{"https://freshplus.test"})

	r := gin.New()
	r.GET("/admin/ws", func(c *gin.Context) {
		if c.Query("token") == "ok" {
			c.Set(middlewares.ContextAdminEmail, "owner@freshplus.test")
		}
	}, wc.DashboardSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=ok", http.Header{"Origin": {"https://evil.test"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=ok", http.Header{"Origin": {"https://freshplus.test"}})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast(hub.EventContactCreated, map[string]string{"reference": "CM-1"})
	var msg hub.Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, hub.EventContactCreated, msg.Event)

	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
