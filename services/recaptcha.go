package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
	"github.com/sirupsen/logrus"
)

const DefaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var (
	ErrMissingToken           = errors.New("recaptcha token is required")
	ErrVerificationFailed     = errors.New("recaptcha verification failed")
	ErrRecaptchaNotConfigured = errors.New("recaptcha secret is not configured")
	ErrRecaptchaUnavailable   = errors.New("recaptcha service unavailable")
)

type RecaptchaConfig struct {
	Secret    string
	VerifyURL string
	MinScore  float64
}

type RecaptchaVerifier struct {
	config     *RecaptchaConfig
	httpClient *http.Client
}

// RecaptchaResult is the outcome of a score check. Success is false when
// the upstream accepted the token but the score is below the threshold.
type RecaptchaResult struct {
	Success  bool    `json:"success"`
	Score    float64 `json:"score"`
	Action   string  `json:"action"`
	Hostname string  `json:"hostname,omitempty"`
}

type siteverifyResponse struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

func NewRecaptchaVerifier(cfg RecaptchaConfig) *RecaptchaVerifier {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultRecaptchaVerifyURL
	}
	return &RecaptchaVerifier{
		config:     &cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a secret is configured.
func (rv *RecaptchaVerifier) Enabled() bool {
	return rv != nil && rv.config.Secret != ""
}

func (rv *RecaptchaVerifier) MinScore() float64 {
	return rv.config.MinScore
}

// Verify forwards the token to the siteverify endpoint and compares the
// returned score with the configured threshold.
func (rv *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (*RecaptchaResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if !rv.Enabled() {
		return nil, ErrRecaptchaNotConfigured
	}

	form := url.Values{}
	form.Set("secret", rv.config.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rv.config.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := rv.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecaptchaUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRecaptchaUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRecaptchaUnavailable, resp.StatusCode)
	}

	var sv siteverifyResponse
	if err := json.Unmarshal(body, &sv); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRecaptchaUnavailable, err)
	}

	if !sv.Success {
		codes := strings.Join(sv.ErrorCodes, ", ")
		if codes == "" {
			codes = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrVerificationFailed, codes)
	}

	result := &RecaptchaResult{
		Success:  sv.Score >= rv.config.MinScore,
		Score:    sv.Score,
		Action:   sv.Action,
		Hostname: sv.Hostname,
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"score":  sv.Score,
		"action": sv.Action,
		"passed": result.Success,
	}).Debug("recaptcha verified")

	return result, nil
}
