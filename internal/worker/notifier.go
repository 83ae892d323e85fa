package worker

import (
	"context"
	"encoding/json"

	"github.com/salonbook/booking-api/internal/email"
	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/service/notification"
	"github.com/salonbook/booking-api/pkg/logger"
	"github.com/salonbook/booking-api/pkg/messaging"
)

var bookingChannels = []string{
	model.EventBookingCreated,
	model.EventBookingCancelled,
	model.EventBookingCompleted,
}

// Notifier consumes booking events from the broker and delivers them:
// an in-app notification always, an email when the recipient has an
// address. Delivery is at-least-once; the in-app store tolerates
// duplicate event replays as duplicate rows.
type Notifier struct {
	broker   messaging.Broker
	notifSvc *notification.Service
	emailSvc email.Service
	logger   *logger.Logger
}

func NewNotifier(broker messaging.Broker, notifSvc *notification.Service, emailSvc email.Service, logger *logger.Logger) *Notifier {
	return &Notifier{
		broker:   broker,
		notifSvc: notifSvc,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	for _, channel := range bookingChannels {
		messages, err := n.broker.Subscribe(ctx, channel)
		if err != nil {
			return err
		}

		go n.consume(ctx, channel, messages)
	}

	n.logger.Info("notification worker started")
	<-ctx.Done()
	return nil
}

func (n *Notifier) consume(ctx context.Context, channel string, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-messages:
			if !ok {
				return
			}
			if err := n.handle(ctx, payload); err != nil {
				n.logger.Error(err, "failed to handle booking event", "channel", channel)
			}
		}
	}
}

func (n *Notifier) handle(ctx context.Context, payload []byte) error {
	var event model.BookingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	if _, err := n.notifSvc.Notify(ctx, event.RecipientUserID, event.Title, event.Message); err != nil {
		return err
	}

	if event.RecipientEmail != "" {
		if err := n.emailSvc.SendCustom(ctx, event.RecipientEmail, event.Title, event.Message); err != nil {
			// Email is best-effort; the in-app notification already landed.
			n.logger.Warn("failed to send notification email",
				"booking_id", event.BookingID.String())
		}
	}

	return nil
}
