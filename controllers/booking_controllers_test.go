package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/controllers"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
)

func setupBookingRouter(db *gorm.DB, events *recordingBroadcaster) *gin.Engine {
	bc := controllers.NewInstantBookingController(db, events)
	lc := controllers.NewBookingController(db)

	r := adminEngine(db)
	r.GET("/admin/instant-bookings", bc.ListBookings)
	r.GET("/admin/instant-bookings/:id", bc.GetBooking)
	r.PUT("/admin/instant-bookings/:id/status", bc.UpdateStatus)
	r.PUT("/admin/instant-bookings/:id/notes", bc.UpdateNotes)
	r.POST("/admin/instant-bookings/:id/assign", bc.AssignCleaner)
	r.DELETE("/admin/instant-bookings/:id", bc.DeleteBooking)

	r.GET("/admin/bookings", lc.ListBookings)
	r.GET("/admin/bookings/:id", lc.GetBooking)
	r.PUT("/admin/bookings/:id/status", lc.UpdateStatus)
	r.DELETE("/admin/bookings/:id", lc.DeleteBooking)
	return r
}

func TestListInstantBookings_Filters(t *testing.T) {
	db := setupDB(t)
	r := setupBookingRouter(db, &recordingBroadcaster{})

	day := func(n int) time.Time { return time.Now().AddDate(0, 0, n) }
	seedBooking(t, db, models.InstantBooking{Name: "Alice", Email: "alice@example.com", Postcode: "E1 6AN", ServiceDate: day(1)})
	seedBooking(t, db, models.InstantBooking{Name: "Bob", Email: "bob@example.com", Status: models.StatusCompleted, ServiceDate: day(2)})
	seedBooking(t, db, models.InstantBooking{Name: "Carol", Email: "carol@example.com", Status: models.StatusCompleted, ServiceDate: day(10)})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Carol", "Bob", "Alice"}},
		{"?status=completed", []string{"Carol", "Bob"}},
		{"?q=ALICE", []string{"Alice"}},
		{"?q=e1%206", []string{"Alice"}},
		{"?to=" + day(5).Format("2006-01-02"), []string{"Bob", "Alice"}},
		{"?status=completed&from=" + day(5).Format("2006-01-02"), []string{"Carol"}},
		{"?page=2&page_size=2", []string{"Alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/admin/instant-bookings"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var p page[models.InstantBooking]
			decode(t, w, &p)
			names := make([]string, len(p.Items))
			for i, b := range p.Items {
				names[i] = b.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}

	w := doJSON(r, http.MethodGet, "/admin/instant-bookings?page=1&page_size=2", nil)
	var p page[models.InstantBooking]
	decode(t, w, &p)
	assert.Equal(t, int64(3), p.Total)
	assert.Equal(t, 2, p.TotalPages)

	w = doJSON(r, http.MethodGet, "/admin/instant-bookings?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodGet, "/admin/instant-bookings?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Any known label may replace any other.
func TestUpdateInstantBookingStatus_AnyToAny(t *testing.T) {
	db := setupDB(t)
	events := &recordingBroadcaster{}
	r := setupBookingRouter(db, events)
	b := seedBooking(t, db, models.InstantBooking{})

	for _, from := range models.BookingStatuses {
		for _, to := range models.BookingStatuses {
			require.NoError(t, db.Model(&b).Update("status", from).Error)

			w := doJSON(r, http.MethodPut, fmt.Sprintf("/admin/instant-bookings/%d/status", b.ID), map[string]string{"status": to})
			require.Equal(t, http.StatusOK, w.Code, "%s -> %s: %s", from, to, w.Body.String())

			var got models.InstantBooking
			decode(t, w, &got)
			assert.Equal(t, to, got.Status)
		}
	}
	assert.Contains(t, events.events, hub.EventBookingUpdated)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/admin/instant-bookings/%d/status", b.ID), map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodPut, "/admin/instant-bookings/999/status", map[string]string{"status": models.StatusConfirmed})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPut, "/admin/instant-bookings/abc/status", map[string]string{"status": models.StatusConfirmed})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateInstantBookingNotes(t *testing.T) {
	db := setupDB(t)
	r := setupBookingRouter(db, &recordingBroadcaster{})
	b := seedBooking(t, db, models.InstantBooking{})

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/admin/instant-bookings/%d/notes", b.ID), map[string]string{"admin_notes": "Dog on site"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.InstantBooking
	require.NoError(t, db.First(&stored, b.ID).Error)
	assert.Equal(t, "Dog on site", stored.AdminNotes)
	assert.Equal(t, []string{"instant_booking:update_notes"}, activityActions(t, db))
}

func TestAssignCleaner(t *testing.T) {
	db := setupDB(t)
	events := &recordingBroadcaster{}
	r := setupBookingRouter(db, events)

	b := seedBooking(t, db, models.InstantBooking{Hours: 3.5})
	cleaner := models.Cleaner{Name: "Maria", Email: "maria@freshplus.test", HourlyRate: 14, Active: true}
	require.NoError(t, db.Create(&cleaner).Error)
	inactive := models.Cleaner{Name: "Old", Email: "old@freshplus.test", HourlyRate: 12, Active: true}
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Model(&inactive).Update("active", false).Error)

	path := fmt.Sprintf("/admin/instant-bookings/%d/assign", b.ID)

	w := doJSON(r, http.MethodPost, path, map[string]interface{}{"cleaner_id": inactive.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodPost, path, map[string]interface{}{"cleaner_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, path, map[string]interface{}{"cleaner_id": cleaner.ID, "notes": "bring ladder"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Booking    models.InstantBooking    `json:"booking"`
		Assignment models.CleanerAssignment `json:"assignment"`
	}
	decode(t, w, &data)
	assert.Equal(t, models.StatusAssigned, data.Booking.Status)
	assert.Equal(t, models.AssignmentAssigned, data.Assignment.Status)
	assert.Equal(t, 49.0, data.Assignment.Earnings)

	var stored models.InstantBooking
	require.NoError(t, db.First(&stored, b.ID).Error)
	require.NotNil(t, stored.CleanerID)
	assert.Equal(t, cleaner.ID, *stored.CleanerID)
	assert.Equal(t, models.StatusAssigned, stored.Status)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/admin/instant-bookings/%d", b.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maria")
	assert.Contains(t, events.events, hub.EventBookingUpdated)
}

func TestDeleteInstantBooking(t *testing.T) {
	db := setupDB(t)
	events := &recordingBroadcaster{}
	r := setupBookingRouter(db, events)

	b := seedBooking(t, db, models.InstantBooking{})
	cleaner := models.Cleaner{Name: "Maria", Email: "maria@freshplus.test", Active: true}
	require.NoError(t, db.Create(&cleaner).Error)
	require.NoError(t, db.Create(&models.CleanerAssignment{BookingID: b.ID, CleanerID: cleaner.ID, Status: models.AssignmentAssigned, AssignedAt: time.Now()}).Error)
	inv := models.Invoice{Number: "INV-1", BookingID: &b.ID, CustomerName: "Jane", CustomerEmail: "jane@example.com", Status: models.InvoiceDraft, IssuedAt: time.Now(), DueAt: time.Now()}
	require.NoError(t, db.Create(&inv).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/instant-bookings/%d", b.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	db.Model(&models.InstantBooking{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.CleanerAssignment{}).Count(&count)
	assert.Zero(t, count)

	var storedInv models.Invoice
	require.NoError(t, db.First(&storedInv, inv.ID).Error)
	assert.Nil(t, storedInv.BookingID)
	assert.Contains(t, events.events, hub.EventBookingDeleted)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/instant-bookings/%d", b.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLegacyBookings(t *testing.T) {
	db := setupDB(t)
	r := setupBookingRouter(db, &recordingBroadcaster{})

	b := models.Booking{Name: "John", Email: "john@example.com", Phone: "07700900456", ServiceType: "deep", PreferredDate: time.Now().AddDate(0, 0, 2), Status: models.StatusPending}
	require.NoError(t, db.Create(&b).Error)

	w := doJSON(r, http.MethodGet, "/admin/bookings?status=pending&q=john", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p page[models.Booking]
	decode(t, w, &p)
	require.Len(t, p.Items, 1)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/admin/bookings/%d/status", b.ID), map[string]string{"status": models.StatusConfirmed, "admin_notes": "called back"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got models.Booking
	decode(t, w, &got)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, "called back", got.AdminNotes)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/admin/bookings/%d/status", b.ID), map[string]string{"status": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/bookings/%d", b.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/admin/bookings/%d", b.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{"booking:update_status", "booking:delete"}, activityActions(t, db))
}

func TestGetInstantBookingSurfacesDBErrors(t *testing.T) {
	db := setupDB(t)
	r := setupBookingRouter(db, &recordingBroadcaster{})
	b := seedBooking(t, db, models.InstantBooking{})
	path := fmt.Sprintf("/admin/instant-bookings/%d", b.ID)

	w := doJSON(r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, db.Migrator().DropTable(&models.InvoiceItem{}, &models.Invoice{}))
	w = doJSON(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
