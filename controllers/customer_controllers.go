package controllers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

// CustomerController reports customers derived from bookings. There is no
// customer table: rows are grouped by lower-cased email.
type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// AggregateCustomers folds instant and legacy bookings into one row per
// email. The most recent booking supplies name, phone and postcode; only
// completed instant bookings count towards TotalSpent.
func AggregateCustomers(instant []models.InstantBooking, legacy []models.Booking) []models.Customer {
	type acc struct {
		customer models.Customer
		latest   time.Time
	}
	byEmail := map[string]*acc{}

	add := func(email, name, phone, postcode string, at time.Time, spent float64) {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" {
			return
		}
		a, ok := byEmail[key]
		if !ok {
			a = &acc{customer: models.Customer{Email: key}}
			byEmail[key] = a
		}
		a.customer.BookingsCount++
		a.customer.TotalSpent = utils.RoundMoney(a.customer.TotalSpent + spent)
		if !at.Before(a.latest) {
			a.latest = at
			a.customer.Name = name
			a.customer.Phone = phone
			if postcode != "" {
				a.customer.Postcode = postcode
			}
			a.customer.LastBookingAt = at
		}
	}

	for _, b := range instant {
		spent := 0.0
		if b.Status == models.StatusCompleted {
			spent = b.TotalPrice
		}
		add(b.Email, b.Name, b.Phone, b.Postcode, b.CreatedAt, spent)
	}
	for _, b := range legacy {
		add(b.Email, b.Name, b.Phone, b.Postcode, b.CreatedAt, 0)
	}

	out := make([]models.Customer, 0, len(byEmail))
	for _, a := range byEmail {
		out = append(out, a.customer)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastBookingAt.Equal(out[j].LastBookingAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].LastBookingAt.After(out[j].LastBookingAt)
	})
	return out
}

func (cc *CustomerController) load(email string) ([]models.InstantBooking, []models.Booking, error) {
	instantQ := cc.DB.Model(&models.InstantBooking{})
	legacyQ := cc.DB.Model(&models.Booking{})
	if email != "" {
		instantQ = instantQ.Where("LOWER(email) = ?", email)
		legacyQ = legacyQ.Where("LOWER(email) = ?", email)
	}

	var instant []models.InstantBooking
	if err := instantQ.Order("created_at DESC").Find(&instant).Error; err != nil {
		return nil, nil, err
	}
	var legacy []models.Booking
	if err := legacyQ.Order("created_at DESC").Find(&legacy).Error; err != nil {
		return nil, nil, err
	}
	return instant, legacy, nil
}

// GetAllCustomers -> GET /admin/customers[?q=]
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	page := utils.ParsePage(c)

	instant, legacy, err := cc.load("")
	if err != nil {
		respondDBError(c, err)
		return
	}
	customers := AggregateCustomers(instant, legacy)

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		filtered := customers[:0]
		for _, cu := range customers {
			if strings.Contains(cu.Email, q) || strings.Contains(strings.ToLower(cu.Name), q) || strings.Contains(strings.ToLower(cu.Postcode), q) {
				filtered = append(filtered, cu)
			}
		}
		customers = filtered
	}

	total := int64(len(customers))
	start := page.Offset()
	if start > len(customers) {
		start = len(customers)
	}
	end := start + page.Size
	if end > len(customers) {
		end = len(customers)
	}

	utils.RespondPage(c, "List of customers", customers[start:end], page, total)
}

// GetCustomer -> GET /admin/customers/:email
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))

	instant, legacy, err := cc.load(email)
	if err != nil {
		respondDBError(c, err)
		return
	}
	customers := AggregateCustomers(instant, legacy)
	if len(customers) == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer", gin.H{
		"customer":         customers[0],
		"instant_bookings": instant,
		"bookings":         legacy,
	})
}
