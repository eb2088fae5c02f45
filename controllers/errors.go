package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/pricing"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrDateInPast      = errors.New("date must not be in the past")
	ErrRecaptchaFailed = errors.New("recaptcha check failed")
)

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, c.Param(name))
	}
	return uint(id), nil
}

// respondDBError maps gorm's not-found to 404 and everything else to 500.
func respondDBError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("database error")
	utils.RespondError(c, http.StatusInternalServerError, err)
}

func isSelectionError(err error) bool {
	return errors.Is(err, pricing.ErrUnknownTier) ||
		errors.Is(err, pricing.ErrUnknownExtra) ||
		errors.Is(err, pricing.ErrUnknownBundle) ||
		errors.Is(err, pricing.ErrUnknownFrequency) ||
		errors.Is(err, pricing.ErrUnknownServiceType)
}
