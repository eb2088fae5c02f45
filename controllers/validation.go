package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

const (
	dateLayout     = "2006-01-02"
	minPhoneDigits = 10
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
	})
}

// ValidPhone accepts numbers with at least ten digits once spaces, dashes,
// dots, parentheses and a leading + are removed.
func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits
}

// respondBindError answers 400 with per-field messages when the body failed
// validation, or the decoder error otherwise.
func respondBindError(c *gin.Context, err error) {
	if fields := validationErrors(err); fields != nil {
		utils.RespondJSON(c, http.StatusBadRequest, "validation failed", gin.H{"errors": fields})
		return
	}
	utils.RespondError(c, http.StatusBadRequest, err)
}

func validationErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return fmt.Sprintf("must contain at least %d digits", minPhoneDigits)
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}

// parseDate reads YYYY-MM-DD in the server's local zone.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// parseFutureDate rejects dates before today.
func parseFutureDate(s string, now time.Time) (time.Time, error) {
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Before(startOfDay(now)) {
		return time.Time{}, ErrDateInPast
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
