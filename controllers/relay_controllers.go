package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/services"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

type QuoteSender interface {
	SendQuote(ctx context.Context, q services.QuoteEmail) (string, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*services.RecaptchaResult, error)
}

// RelayController serves the two passthrough endpoints used by the quote
// form. Their response bodies are {success, ...} rather than the admin
// envelope.
type RelayController struct {
	Mailer        QuoteSender
	Verifier      TokenVerifier
	BusinessEmail string
}

func NewRelayController(mailer QuoteSender, verifier TokenVerifier, businessEmail string) *RelayController {
	return &RelayController{Mailer: mailer, Verifier: verifier, BusinessEmail: businessEmail}
}

// SendQuoteEmail -> POST /api/send-quote-email
func (rc *RelayController) SendQuoteEmail(c *gin.Context) {
	var body struct {
		QuoteData *services.QuoteEmail `json:"quoteData"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if body.QuoteData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "quoteData is required"})
		return
	}
	q := *body.QuoteData
	if strings.TrimSpace(q.Name) == "" || strings.TrimSpace(q.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "quoteData.name and quoteData.email are required"})
		return
	}

	id, err := rc.Mailer.SendQuote(c.Request.Context(), q)
	if err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"customer": q.Email,
		}).WithError(err).Error("quote email failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send quote email: " + err.Error(),
			"fallback": gin.H{
				"mailto": services.MailtoFallback(rc.BusinessEmail, q),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quote email sent successfully",
		"emailId": id,
	})
}

// VerifyRecaptcha -> POST /api/verify-recaptcha
func (rc *RelayController) VerifyRecaptcha(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	result, err := rc.Verifier.Verify(c.Request.Context(), body.Token, c.ClientIP())
	switch {
	case errors.Is(err, services.ErrMissingToken), errors.Is(err, services.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	case err != nil:
		utils.ErrorLogger.WithError(err).Error("recaptcha verification error")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	if !result.Success {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"score":   result.Score,
			"action":  result.Action,
			"error":   "score below threshold",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   result.Score,
		"action":  result.Action,
	})
}

// MethodNotAllowed answers non-POST calls to the relay endpoints.
func (rc *RelayController) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", "POST, OPTIONS")
	c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "Method not allowed"})
}
