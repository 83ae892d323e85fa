package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

// LockAvailable takes row locks on the requested slots before the
// availability check, so two concurrent reservations for overlapping
// slot sets serialize instead of both observing is_booked = false.
func (r *timeSlotRepository) LockAvailable(ctx context.Context, ids []uuid.UUID) ([]*model.TimeSlot, error) {
	query, args, err := sqlx.In(`
		SELECT id, work_schedule_id, start_time, end_time, is_booked
		FROM time_slots
		WHERE id IN (?) AND is_booked = false
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build slot lock query: %w", err)
	}
	query = r.ext(ctx).Rebind(query)

	var slots []*model.TimeSlot
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &slots, query, args...); err != nil {
		return nil, fmt.Errorf("failed to lock time slots: %w", err)
	}
	return slots, nil
}

// MarkBooked only flips rows still unbooked; a shortfall in affected
// rows means another transaction won the race.
func (r *timeSlotRepository) MarkBooked(ctx context.Context, ids []uuid.UUID) error {
	query, args, err := sqlx.In(`
		UPDATE time_slots
		SET is_booked = true
		WHERE id IN (?) AND is_booked = false
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build slot update query: %w", err)
	}
	query = r.ext(ctx).Rebind(query)

	result, err := r.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark time slots booked: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows != int64(len(ids)) {
		return apperrors.Conflict("one or more time slots are no longer available")
	}

	return nil
}

func (r *timeSlotRepository) ReleaseForBooking(ctx context.Context, bookingID uuid.UUID) error {
	query := `
		UPDATE time_slots
		SET is_booked = false
		WHERE id IN (
			SELECT time_slot_id FROM booking_time_slots WHERE booking_id = $1
		)
	`
	if _, err := r.ext(ctx).ExecContext(ctx, query, bookingID); err != nil {
		return fmt.Errorf("failed to release time slots: %w", err)
	}
	return nil
}
