package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, customer_id, stylist_id, rating, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.ext(ctx).ExecContext(ctx, query,
		review.ID,
		review.BookingID,
		review.CustomerID,
		review.StylistID,
		review.Rating,
		review.Content,
		review.CreatedAt,
	)
	if err != nil {
		// The unique index on booking_id backs the one-review-per-booking
		// rule under concurrent submissions.
		if isUniqueViolation(err) {
			return apperrors.Conflict("booking already reviewed")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, bookingID); err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
