package controllers_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/controllers"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/pricing"
)

type fakeNotifier struct {
	mu       sync.Mutex
	bookings []models.InstantBooking
	contacts []models.ContactMessage
}

func (f *fakeNotifier) BookingCreated(ctx context.Context, b models.InstantBooking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, b)
}

func (f *fakeNotifier) ContactCreated(ctx context.Context, m models.ContactMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, m)
}

func setupPublicRouter(db *gorm.DB, notifier *fakeNotifier) *gin.Engine {
	pc := controllers.NewPublicController(db, pricing.DefaultCatalog(), nil, false, notifier)
	r := gin.New()
	r.GET("/api/pricing/catalog", pc.GetCatalog)
	r.POST("/api/quotes", pc.CreateQuote)
	r.POST("/api/contact", pc.SubmitContact)
	r.POST("/api/instant-bookings", pc.CreateInstantBooking)
	r.POST("/api/bookings", pc.CreateBooking)
	r.GET("/api/instant-bookings/:reference", pc.LookupInstantBooking)
	return r
}

func validContact() map[string]interface{} {
	return map[string]interface{}{
		"name":    "Jane Doe",
		"email":   "Jane@Example.com",
		"phone":   "+44 (0)7700-900123",
		"subject": "End of tenancy",
		"message": "Could you clean a two bed flat next Friday?",
	}
}

// Missing name, bad email, short phone and short message are rejected;
// anything else that is well formed is accepted.
func TestSubmitContact_Validation(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]interface{}
		field string
	}{
		{"valid", nil, ""},
		{"valid without subject", map[string]interface{}{"subject": ""}, ""},
		{"valid uk mobile", map[string]interface{}{"phone": "07700900123"}, ""},
		{"valid long message", map[string]interface{}{"message": strings.Repeat("a", 2000)}, ""},
		{"missing name", map[string]interface{}{"name": ""}, "name"},
		{"one letter name", map[string]interface{}{"name": "J"}, "name"},
		{"invalid email", map[string]interface{}{"email": "jane.example.com"}, "email"},
		{"missing email", map[string]interface{}{"email": ""}, "email"},
		{"short phone", map[string]interface{}{"phone": "07700 90"}, "phone"},
		{"letters in phone", map[string]interface{}{"phone": "call me maybe"}, "phone"},
		{"short message", map[string]interface{}{"message": "Hi there"}, "message"},
		{"huge message", map[string]interface{}{"message": strings.Repeat("a", 2001)}, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			notifier := &fakeNotifier{}
			r := setupPublicRouter(db, notifier)

			body := validContact()
			for k, v := range tt.patch {
				body[k] = v
			}
			w := doJSON(r, http.MethodPost, "/api/contact", body)

			if tt.field == "" {
				require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
				var data struct {
					Reference string `json:"reference"`
				}
				decode(t, w, &data)
				assert.True(t, strings.HasPrefix(data.Reference, "MSG-"), data.Reference)
				require.Len(t, notifier.contacts, 1)
				assert.Equal(t, "jane@example.com", notifier.contacts[0].Email)
				assert.Equal(t, models.MessageUnread, notifier.contacts[0].Status)
				return
			}

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var data struct {
				Errors map[string]string `json:"errors"`
			}
			env := decode(t, w, &data)
			assert.Equal(t, "validation failed", env.Message)
			assert.Contains(t, data.Errors, tt.field)
			assert.Empty(t, notifier.contacts)

			var count int64
			db.Model(&models.ContactMessage{}).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, controllers.ValidPhone("+44 20 7946 0000"))
	assert.True(t, controllers.ValidPhone("(020) 7946-0000"))
	assert.False(t, controllers.ValidPhone("12345"))
	assert.False(t, controllers.ValidPhone("0207 946 000x"))
}

func TestCreateQuote(t *testing.T) {
	r := setupPublicRouter(setupDB(t), nil)

	w := doJSON(r, http.MethodPost, "/api/quotes", map[string]interface{}{
		"tier":   "2-bed",
		"extras": []string{"oven", "fridge"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var q pricing.Quote
	decode(t, w, &q)
	assert.Equal(t, 175.0, q.Total)
	assert.Equal(t, "GBP", q.Currency)

	w = doJSON(r, http.MethodPost, "/api/quotes", map[string]interface{}{"tier": "castle"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCatalog(t *testing.T) {
	r := setupPublicRouter(setupDB(t), nil)
	w := doJSON(r, http.MethodGet, "/api/pricing/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cat pricing.Catalog
	decode(t, w, &cat)
	assert.Len(t, cat.Tiers, 6)
	assert.Equal(t, "kitchen", cat.DefaultBundle)
}

func instantBookingBody() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Jane Doe",
		"email":         "jane@example.com",
		"phone":         "07700 900123",
		"address_line1": "1 High Street",
		"city":          "London",
		"postcode":      "sw1a 1aa",
		"property_tier": "2-bed",
		"frequency":     "weekly",
		"extras":        []string{"oven", "fridge"},
		"bundle":        true,
		"service_date":  tomorrow(),
		"time_slot":     "morning",
		"total_price":   1.00,
	}
}

func TestCreateInstantBooking_PricesServerSide(t *testing.T) {
	db := setupDB(t)
	notifier := &fakeNotifier{}
	r := setupPublicRouter(db, notifier)

	w := doJSON(r, http.MethodPost, "/api/instant-bookings", instantBookingBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Reference string        `json:"reference"`
		Status    string        `json:"status"`
		Quote     pricing.Quote `json:"quote"`
	}
	decode(t, w, &data)

	want, err := pricing.Calculate(pricing.DefaultCatalog(), pricing.Selection{
		Tier:      "2-bed",
		Extras:    []string{"oven", "fridge"},
		Frequency: "weekly",
		Bundle:    true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(data.Reference, "FP-"), data.Reference)
	assert.Equal(t, models.StatusPending, data.Status)
	assert.Equal(t, want.Total, data.Quote.Total)
	assert.NotEqual(t, 1.00, data.Quote.Total)

	var stored models.InstantBooking
	require.NoError(t, db.Where("reference = ?", data.Reference).First(&stored).Error)
	assert.Equal(t, want.Total, stored.TotalPrice)
	assert.Equal(t, "SW1A 1AA", stored.Postcode)
	assert.Equal(t, "standard", stored.ServiceType)
	assert.Equal(t, "kitchen", stored.Bundle)
	assert.ElementsMatch(t, []string{"oven", "fridge", "inside-cabinets"}, []string(stored.Extras))

	require.Len(t, notifier.bookings, 1)
	assert.Equal(t, data.Reference, notifier.bookings[0].Reference)
}

func TestCreateInstantBooking_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]interface{}
	}{
		{"past date", map[string]interface{}{"service_date": time.Now().AddDate(0, 0, -1).Format("2006-01-02")}},
		{"bad date", map[string]interface{}{"service_date": "next tuesday"}},
		{"unknown tier", map[string]interface{}{"property_tier": "castle"}},
		{"unknown extra", map[string]interface{}{"extras": []string{"moat"}}},
		{"unknown frequency", map[string]interface{}{"frequency": "hourly"}},
		{"missing postcode", map[string]interface{}{"postcode": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			r := setupPublicRouter(db, &fakeNotifier{})

			body := instantBookingBody()
			for k, v := range tt.patch {
				body[k] = v
			}
			w := doJSON(r, http.MethodPost, "/api/instant-bookings", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var count int64
			db.Model(&models.InstantBooking{}).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestLookupInstantBooking(t *testing.T) {
	db := setupDB(t)
	r := setupPublicRouter(db, nil)
	b := seedBooking(t, db, models.InstantBooking{Status: models.StatusConfirmed, TotalPrice: 105})

	w := doJSON(r, http.MethodGet, "/api/instant-bookings/"+strings.ToLower(b.Reference)+"?email=JANE@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data map[string]interface{}
	decode(t, w, &data)
	assert.Equal(t, models.StatusConfirmed, data["status"])
	assert.NotContains(t, data, "phone")

	w = doJSON(r, http.MethodGet, "/api/instant-bookings/"+b.Reference+"?email=someone@else.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/instant-bookings/"+b.Reference, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateLegacyBooking(t *testing.T) {
	db := setupDB(t)
	r := setupPublicRouter(db, nil)

	w := doJSON(r, http.MethodPost, "/api/bookings", map[string]interface{}{
		"name":           "John Smith",
		"email":          "john@example.com",
		"phone":          "07700 900456",
		"service_type":   "deep",
		"property_size":  "3-bed",
		"preferred_date": tomorrow(),
		"preferred_time": "afternoon",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b models.Booking
	decode(t, w, &b)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, 195.0, b.EstimatedPrice)
}
