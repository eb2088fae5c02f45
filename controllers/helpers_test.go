package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/controllers"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	controllers.RegisterValidators()
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func seedBooking(t *testing.T, db *gorm.DB, b models.InstantBooking) models.InstantBooking {
	t.Helper()
	if b.Reference == "" {
		b.Reference = utils.NewReference("FP")
	}
	if b.Name == "" {
		b.Name = "Jane Doe"
	}
	if b.Email == "" {
		b.Email = "jane@example.com"
	}
	if b.Phone == "" {
		b.Phone = "07700 900123"
	}
	if b.AddressLine1 == "" {
		b.AddressLine1 = "1 High Street"
	}
	if b.City == "" {
		b.City = "London"
	}
	if b.Postcode == "" {
		b.Postcode = "SW1A 1AA"
	}
	if b.PropertyTier == "" {
		b.PropertyTier = "2-bed"
	}
	if b.ServiceType == "" {
		b.ServiceType = "standard"
	}
	if b.Frequency == "" {
		b.Frequency = "one-off"
	}
	if b.Status == "" {
		b.Status = models.StatusPending
	}
	if b.Currency == "" {
		b.Currency = "GBP"
	}
	if b.ServiceDate.IsZero() {
		b.ServiceDate = time.Now().AddDate(0, 0, 3)
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

// recordingBroadcaster captures hub events.
type recordingBroadcaster struct {
	events []string
}

func (r *recordingBroadcaster) Broadcast(event string, data interface{}) {
	r.events = append(r.events, event)
}

// adminEngine mimics the authenticated admin group: a signed-in admin plus
// the activity logger.
func adminEngine(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middlewares.ContextAdminID, uint(1))
		c.Set(middlewares.ContextAdminEmail, "owner@freshplus.test")
		c.Set(middlewares.ContextRole, models.RoleAdmin)
	}, middlewares.ActivityLogger(db))
	return r
}

func activityActions(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var logs []models.ActivityLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.EntityType + ":" + l.Action
	}
	return out
}
