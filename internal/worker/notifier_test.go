package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/service/notification"
	"github.com/salonbook/booking-api/pkg/logger"
)

type fakeNotificationRepo struct {
	notifications []*model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, _ uuid.UUID) (int, error) {
	return len(f.notifications), nil
}

type fakeEmailService struct {
	sent []string
}

func (f *fakeEmailService) SendCustom(_ context.Context, to, _, _ string) error {
	f.sent = append(f.sent, to)
	return nil
}

func TestHandle(t *testing.T) {
	newNotifier := func() (*Notifier, *fakeNotificationRepo, *fakeEmailService) {
		repo := &fakeNotificationRepo{}
		emails := &fakeEmailService{}
		n := NewNotifier(nil, notification.NewService(repo), emails, logger.NewLogger(nil))
		return n, repo, emails
	}

	t.Run("delivers in-app notification and email", func(t *testing.T) {
		n, repo, emails := newNotifier()

		recipient := uuid.New()
		payload, err := json.Marshal(&model.BookingEvent{
			BookingID:       uuid.New(),
			RecipientUserID: recipient,
			RecipientEmail:  "marco@example.com",
			Title:           "New booking",
			Message:         "Ada booked Haircut",
		})
		require.NoError(t, err)

		require.NoError(t, n.handle(context.Background(), payload))

		require.Len(t, repo.notifications, 1)
		assert.Equal(t, recipient, repo.notifications[0].UserID)
		assert.Equal(t, []string{"marco@example.com"}, emails.sent)
	})

	t.Run("skips email without recipient address", func(t *testing.T) {
		n, repo, emails := newNotifier()

		payload, err := json.Marshal(&model.BookingEvent{
			BookingID:       uuid.New(),
			RecipientUserID: uuid.New(),
			Title:           "Booking cancelled",
			Message:         "The appointment was cancelled",
		})
		require.NoError(t, err)

		require.NoError(t, n.handle(context.Background(), payload))
		assert.Len(t, repo.notifications, 1)
		assert.Empty(t, emails.sent)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		n, repo, _ := newNotifier()

		assert.Error(t, n.handle(context.Background(), []byte("not json")))
		assert.Empty(t, repo.notifications)
	})
}
