package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

type BookingMailer interface {
	SendBookingAlert(ctx context.Context, b models.InstantBooking) (string, error)
	SendBookingConfirmation(ctx context.Context, b models.InstantBooking) (string, error)
	SendContact(ctx context.Context, m models.ContactMessage) (string, error)
}

type OwnerAlerter interface {
	NotifyNewBooking(ctx context.Context, b models.InstantBooking) error
	NotifyNewContact(ctx context.Context, m models.ContactMessage) error
}

type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// BookingNotifier fans a stored submission out to email, telegram and the
// dashboard hub. Every channel is best effort: failures are logged and
// never returned to the caller.
type BookingNotifier struct {
	mailer  BookingMailer
	alerter OwnerAlerter
	hub     Broadcaster
}

// NewBookingNotifier accepts nil for any channel that is not configured.
func NewBookingNotifier(mailer BookingMailer, alerter OwnerAlerter, broadcaster Broadcaster) *BookingNotifier {
	return &BookingNotifier{mailer: mailer, alerter: alerter, hub: broadcaster}
}

func (n *BookingNotifier) BookingCreated(ctx context.Context, b models.InstantBooking) {
	if n == nil {
		return
	}
	log := utils.InfoLogger.WithFields(logrus.Fields{"reference": b.Reference, "notification": "booking_created"})

	tasks := map[string]func(context.Context) error{}
	if n.mailer != nil {
		tasks["owner_email"] = func(ctx context.Context) error {
			_, err := n.mailer.SendBookingAlert(ctx, b)
			return err
		}
		tasks["customer_email"] = func(ctx context.Context) error {
			_, err := n.mailer.SendBookingConfirmation(ctx, b)
			return err
		}
	}
	if n.alerter != nil {
		tasks["telegram"] = func(ctx context.Context) error {
			return n.alerter.NotifyNewBooking(ctx, b)
		}
	}

	n.dispatch(ctx, log, tasks)
	n.broadcast(hub.EventBookingCreated, b)
}

func (n *BookingNotifier) ContactCreated(ctx context.Context, m models.ContactMessage) {
	if n == nil {
		return
	}
	log := utils.InfoLogger.WithFields(logrus.Fields{"reference": m.Reference, "notification": "contact_created"})

	tasks := map[string]func(context.Context) error{}
	if n.mailer != nil {
		tasks["owner_email"] = func(ctx context.Context) error {
			_, err := n.mailer.SendContact(ctx, m)
			return err
		}
	}
	if n.alerter != nil {
		tasks["telegram"] = func(ctx context.Context) error {
			return n.alerter.NotifyNewContact(ctx, m)
		}
	}

	n.dispatch(ctx, log, tasks)
	n.broadcast(hub.EventContactCreated, m)
}

// Updated pushes an admin-side change to the dashboards only.
func (n *BookingNotifier) Updated(event string, data interface{}) {
	n.broadcast(event, data)
}

// dispatch runs every task concurrently and waits for all of them. Tasks
// never return their error to the group so one failure cannot cancel the
// others.
func (n *BookingNotifier) dispatch(ctx context.Context, log *logrus.Entry, tasks map[string]func(context.Context) error) {
	var g errgroup.Group
	for name, task := range tasks {
		name, task := name, task
		g.Go(func() error {
			if err := task(ctx); err != nil {
				utils.ErrorLogger.WithFields(log.Data).WithField("channel", name).WithError(err).Error("notification failed")
				return nil
			}
			log.WithField("channel", name).Debug("notification sent")
			return nil
		})
	}
	_ = g.Wait()
}

func (n *BookingNotifier) broadcast(event string, data interface{}) {
	if n == nil || n.hub == nil {
		return
	}
	n.hub.Broadcast(event, data)
}
