package services

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
	"github.com/sirupsen/logrus"
)

const DefaultMailAPIURL = "https://api.resend.com/emails"

var (
	ErrMailRejected      = errors.New("mail API rejected the message")
	ErrMailNotConfigured = errors.New("mail API key is not configured")
	ErrMailUnavailable   = errors.New("mail API unavailable")
)

//go:embed templates/*.html
var templateFS embed.FS

var mailTemplates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"money": utils.FormatCurrency,
	"join":  strings.Join,
}).ParseFS(templateFS, "templates/*.html"))

type MailerConfig struct {
	APIKey   string
	APIURL   string
	From     string
	Business config.Business
}

// Mailer sends transactional email through a Resend-compatible JSON API.
type Mailer struct {
	config     *MailerConfig
	httpClient *http.Client
}

// QuoteEmail is the quoteData payload posted by the quote form.
type QuoteEmail struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	Postcode      string   `json:"postcode"`
	PropertySize  string   `json:"propertySize"`
	ServiceType   string   `json:"serviceType"`
	Frequency     string   `json:"frequency"`
	Extras        []string `json:"extras"`
	Bundle        bool     `json:"bundle"`
	PreferredDate string   `json:"preferredDate"`
	PreferredTime string   `json:"preferredTime"`
	Notes         string   `json:"notes"`
	TotalPrice    float64  `json:"totalPrice"`
	Currency      string   `json:"currency"`
}

type outgoingEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type bookingMailData struct {
	Booking  models.InstantBooking
	Business config.Business
}

func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultMailAPIURL
	}
	return &Mailer{
		config:     &cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.config.APIKey != ""
}

func (m *Mailer) Business() config.Business {
	return m.config.Business
}

func QuoteSubject(q QuoteEmail) string {
	return fmt.Sprintf("New quote request from %s", q.Name)
}

// SendQuote forwards a quote request to the business inbox.
func (m *Mailer) SendQuote(ctx context.Context, q QuoteEmail) (string, error) {
	html, err := render("quote", q)
	if err != nil {
		return "", err
	}
	return m.send(ctx, outgoingEmail{
		To:      []string{m.config.Business.Email},
		Subject: QuoteSubject(q),
		HTML:    html,
		ReplyTo: q.Email,
	})
}

// SendContact forwards a stored contact message to the business inbox.
func (m *Mailer) SendContact(ctx context.Context, msg models.ContactMessage) (string, error) {
	html, err := render("contact", msg)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Contact form: %s", msg.Name)
	if msg.Subject != "" {
		subject = fmt.Sprintf("Contact form: %s (%s)", msg.Subject, msg.Name)
	}
	return m.send(ctx, outgoingEmail{
		To:      []string{m.config.Business.Email},
		Subject: subject,
		HTML:    html,
		ReplyTo: msg.Email,
	})
}

func (m *Mailer) SendBookingConfirmation(ctx context.Context, b models.InstantBooking) (string, error) {
	html, err := render("booking_confirmation", bookingMailData{Booking: b, Business: m.config.Business})
	if err != nil {
		return "", err
	}
	return m.send(ctx, outgoingEmail{
		To:      []string{b.Email},
		Subject: fmt.Sprintf("Your booking %s is received", b.Reference),
		HTML:    html,
		ReplyTo: m.config.Business.Email,
	})
}

// SendBookingAlert tells the business about a new instant booking.
func (m *Mailer) SendBookingAlert(ctx context.Context, b models.InstantBooking) (string, error) {
	html, err := render("booking_alert", bookingMailData{Booking: b, Business: m.config.Business})
	if err != nil {
		return "", err
	}
	return m.send(ctx, outgoingEmail{
		To:      []string{m.config.Business.Email},
		Subject: fmt.Sprintf("New booking %s: %s", b.Reference, b.Name),
		HTML:    html,
		ReplyTo: b.Email,
	})
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func (m *Mailer) send(ctx context.Context, msg outgoingEmail) (string, error) {
	if m.config.APIKey == "" {
		return "", ErrMailNotConfigured
	}
	msg.From = m.config.From

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.config.APIKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrMailUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrMailRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sent struct {
		ID string `json:"id"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &sent); err != nil {
			return "", fmt.Errorf("decode mail response: %w", err)
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"email_id": sent.ID,
		"to":       strings.Join(msg.To, ","),
		"subject":  msg.Subject,
	}).Info("email sent")

	return sent.ID, nil
}

// MailtoFallback builds a mailto: link the visitor can use to send the
// quote themselves when the relay fails.
func MailtoFallback(to string, q QuoteEmail) string {
	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", q.Name)
	fmt.Fprintf(&body, "Email: %s\n", q.Email)
	fmt.Fprintf(&body, "Phone: %s\n", q.Phone)
	if q.Address != "" || q.Postcode != "" {
		fmt.Fprintf(&body, "Address: %s %s\n", q.Address, q.Postcode)
	}
	if q.PropertySize != "" {
		fmt.Fprintf(&body, "Property: %s\n", q.PropertySize)
	}
	if q.ServiceType != "" {
		fmt.Fprintf(&body, "Service: %s\n", q.ServiceType)
	}
	if q.Frequency != "" {
		fmt.Fprintf(&body, "Frequency: %s\n", q.Frequency)
	}
	if len(q.Extras) > 0 {
		fmt.Fprintf(&body, "Extras: %s\n", strings.Join(q.Extras, ", "))
	}
	if q.PreferredDate != "" {
		fmt.Fprintf(&body, "Preferred date: %s %s\n", q.PreferredDate, q.PreferredTime)
	}
	if q.TotalPrice > 0 {
		fmt.Fprintf(&body, "Estimated price: %s\n", utils.FormatCurrency(q.TotalPrice, q.Currency))
	}
	if q.Notes != "" {
		fmt.Fprintf(&body, "Notes: %s\n", q.Notes)
	}

	return "mailto:" + to + "?subject=" + mailtoEscape(QuoteSubject(q)) + "&body=" + mailtoEscape(body.String())
}

func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
