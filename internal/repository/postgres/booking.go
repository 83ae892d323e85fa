package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_id, stylist_id, salon_id,
			total_price, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ext(ctx).ExecContext(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.StylistID,
		booking.SalonID,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	lineQuery := `
		INSERT INTO booking_services (booking_id, service_id, price, position)
		VALUES ($1, $2, $3, $4)
	`
	for i, line := range booking.ServiceLines {
		if _, err := r.ext(ctx).ExecContext(ctx, lineQuery, booking.ID, line.ServiceID, line.Price, i); err != nil {
			return fmt.Errorf("failed to create booking service line: %w", err)
		}
	}

	linkQuery := `
		INSERT INTO booking_time_slots (booking_id, time_slot_id)
		VALUES ($1, $2)
	`
	for _, slot := range booking.Slots {
		if _, err := r.ext(ctx).ExecContext(ctx, linkQuery, booking.ID, slot.ID); err != nil {
			return fmt.Errorf("failed to create booking time slot link: %w", err)
		}
	}

	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, customer_id, stylist_id, salon_id,
			   total_price, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err := sqlx.GetContext(ctx, r.ext(ctx), &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	lineQuery := `
		SELECT bs.booking_id, bs.service_id, s.name AS service_name, bs.price
		FROM booking_services bs
		JOIN services s ON s.id = bs.service_id
		WHERE bs.booking_id = $1
		ORDER BY bs.position ASC
	`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &booking.ServiceLines, lineQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get booking service lines: %w", err)
	}

	slotQuery := `
		SELECT t.id, t.work_schedule_id, t.start_time, t.end_time, t.is_booked
		FROM time_slots t
		JOIN booking_time_slots bt ON bt.time_slot_id = t.id
		WHERE bt.booking_id = $1
		ORDER BY t.start_time ASC
	`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &booking.Slots, slotQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get booking time slots: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.ext(ctx).ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.Conflict("booking status changed concurrently")
	}

	return nil
}

// appointmentStart resolves a booking row to the start of its first
// reserved slot. Date filters apply to the appointment time, not to
// when the booking row was created.
const appointmentStart = `(
		SELECT MIN(t.start_time)
		FROM time_slots t
		JOIN booking_time_slots bt ON bt.time_slot_id = t.id
		WHERE bt.booking_id = bookings.id
	)`

func buildListFilter(filters *model.BookingFilters) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.CustomerID != uuid.Nil {
		where += fmt.Sprintf(" AND customer_id = $%d", argCount)
		args = append(args, filters.CustomerID)
		argCount++
	}
	if filters.StylistID != uuid.Nil {
		where += fmt.Sprintf(" AND stylist_id = $%d", argCount)
		args = append(args, filters.StylistID)
		argCount++
	}
	if filters.SalonID != uuid.Nil {
		where += fmt.Sprintf(" AND salon_id = $%d", argCount)
		args = append(args, filters.SalonID)
		argCount++
	}
	if filters.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.FromDate.IsZero() {
		where += fmt.Sprintf(" AND %s >= $%d", appointmentStart, argCount)
		args = append(args, filters.FromDate)
		argCount++
	}
	if !filters.ToDate.IsZero() {
		where += fmt.Sprintf(" AND %s <= $%d", appointmentStart, argCount)
		args = append(args, filters.ToDate)
	}

	return where, args
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, int, error) {
	where, args := buildListFilter(filters)
	argCount := len(args) + 1

	var total int
	countQuery := "SELECT COUNT(*) FROM bookings" + where
	if err := sqlx.GetContext(ctx, r.ext(ctx), &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := `
		SELECT id, customer_id, stylist_id, salon_id,
			   total_price, status, created_at, updated_at
		FROM bookings` + where
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Pagination.Limit, filters.Pagination.Offset())

	var bookings []*model.Booking
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, total, nil
}
