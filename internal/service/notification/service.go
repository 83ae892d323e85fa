package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/repository"
)

const (
	unreadCacheTTL     = 30 * time.Second
	unreadCacheCleanup = 5 * time.Minute
)

// Service is the in-app side of the notification emitter: it stores a
// notification row per recipient and serves unread counts. Delivery
// over other channels (email) is handled by the notification worker.
type Service struct {
	repo  repository.NotificationRepository
	cache *gocache.Cache
}

func NewService(repo repository.NotificationRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(unreadCacheTTL, unreadCacheCleanup),
	}
}

// Notify records an in-app notification for the recipient and returns
// its id.
func (s *Service) Notify(ctx context.Context, recipientUserID uuid.UUID, title, message string) (uuid.UUID, error) {
	notification := &model.Notification{
		ID:        uuid.New(),
		UserID:    recipientUserID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return uuid.Nil, fmt.Errorf("failed to store notification: %w", err)
	}

	s.cache.Delete(recipientUserID.String())
	return notification.ID, nil
}

// UnreadCount returns the recipient's unread notification count,
// served from a short-lived cache.
func (s *Service) UnreadCount(ctx context.Context, recipientUserID uuid.UUID) (int, error) {
	if cached, ok := s.cache.Get(recipientUserID.String()); ok {
		return cached.(int), nil
	}

	count, err := s.repo.UnreadCount(ctx, recipientUserID)
	if err != nil {
		return 0, err
	}

	s.cache.Set(recipientUserID.String(), count, gocache.DefaultExpiration)
	return count, nil
}
