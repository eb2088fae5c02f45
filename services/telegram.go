package services

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

// TelegramAlerter pings the owner's chat about new bookings and messages.
// A nil bot means alerts are disabled.
type TelegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramAlerter(token string, chatID int64) (*TelegramAlerter, error) {
	if token == "" || chatID == 0 {
		utils.InfoLogger.Warn("telegram bot token or chat id is empty, owner alerts disabled")
		return &TelegramAlerter{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramAlerter{bot: bot, chatID: chatID}, nil
}

func (t *TelegramAlerter) Enabled() bool {
	return t != nil && t.bot != nil
}

func (t *TelegramAlerter) NotifyNewBooking(ctx context.Context, b models.InstantBooking) error {
	return t.send(ctx, BookingAlertText(b))
}

func (t *TelegramAlerter) NotifyNewContact(ctx context.Context, m models.ContactMessage) error {
	text := fmt.Sprintf("New message %s\nFrom: %s <%s>\nPhone: %s\n\n%s",
		m.Reference, m.Name, m.Email, m.Phone, m.Message)
	return t.send(ctx, text)
}

// BookingAlertText is the plain-text summary sent to the owner's chat.
func BookingAlertText(b models.InstantBooking) string {
	extras := "none"
	if len(b.Extras) > 0 {
		extras = strings.Join(b.Extras, ", ")
	}
	return fmt.Sprintf(
		"New booking %s\n%s, %s\n%s %s (%s)\nExtras: %s\nDate: %s %s\nTotal: %s",
		b.Reference,
		b.Name, b.Phone,
		b.PropertyTier, b.ServiceType, b.Frequency,
		extras,
		b.ServiceDate.Format("02 Jan 2006"), b.TimeSlot,
		utils.FormatCurrency(b.TotalPrice, b.Currency),
	)
}

func (t *TelegramAlerter) send(ctx context.Context, text string) error {
	if !t.Enabled() {
		utils.InfoLogger.Debug("telegram alert skipped (bot disabled)")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	return nil
}
