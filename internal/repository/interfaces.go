package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// BookingRepository persists the booking aggregate: the booking row,
	// its service line items and its slot links.
	BookingRepository interface {
		// WithTx runs fn inside a transaction; repository calls made with
		// the ctx passed to fn join that transaction.
		WithTx(ctx context.Context, fn func(ctx context.Context) error) error
		Create(ctx context.Context, booking *model.Booking) error
		// Get loads a booking with its service lines and its slots ordered
		// by start time.
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		// UpdateStatus transitions a booking from one status to another.
		// It fails with a conflict if the stored status no longer matches.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) error
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, int, error)
	}

	TimeSlotRepository interface {
		// LockAvailable loads the requested slots filtered to unbooked ones,
		// taking row locks so concurrent reservations serialize.
		LockAvailable(ctx context.Context, ids []uuid.UUID) ([]*model.TimeSlot, error)
		// MarkBooked flips is_booked on slots that are still free and fails
		// with a conflict if any of them was taken in the meantime.
		MarkBooked(ctx context.Context, ids []uuid.UUID) error
		// ReleaseForBooking returns a cancelled booking's slots to the pool.
		ReleaseForBooking(ctx context.Context, bookingID uuid.UUID) error
	}

	ServiceRepository interface {
		GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Service, error)
	}

	WorkScheduleRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.WorkSchedule, error)
	}

	CustomerRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error)
	}

	StylistRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Stylist, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Stylist, error)
		// RefreshRating recomputes rating and rating_count from the reviews
		// table in a single statement so the aggregate never lags an insert
		// committed in the same transaction.
		RefreshRating(ctx context.Context, stylistID uuid.UUID) error
	}

	SalonRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Salon, error)
	}

	ReviewRepository interface {
		WithTx(ctx context.Context, fn func(ctx context.Context) error) error
		Create(ctx context.Context, review *model.Review) error
		ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	}

	OutboxRepository interface {
		// WithTx runs fn inside a transaction; the processor uses it to keep
		// the SKIP LOCKED row locks held while a batch is dispatched.
		WithTx(ctx context.Context, fn func(ctx context.Context) error) error
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error
	}
)
