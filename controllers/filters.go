package controllers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
)

// bookingFilters applies ?status, ?q, ?from and ?to to a booking query. dateColumn is the column from/to compare against.
func bookingFilters(c *gin.Context, db *gorm.DB, searchColumns []string, dateColumn string) (*gorm.DB, error) {
	if status := c.Query("status"); status != "" {
		if !models.IsValidBookingStatus(status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		db = db.Where("status = ?", status)
	}

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		like := "%" + q + "%"
		clauses := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}

	if from := c.Query("from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			return nil, err
		}
		db = db.Where(dateColumn+" >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			return nil, err
		}
		db = db.Where(dateColumn+" < ?", t.AddDate(0, 0, 1))
	}
	// new session so Count and Find can both run on the result
	return db.Session(&gorm.Session{}), nil
}
