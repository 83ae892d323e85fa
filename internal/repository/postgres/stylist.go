package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

func (r *stylistRepository) Get(ctx context.Context, id uuid.UUID) (*model.Stylist, error) {
	query := `
		SELECT id, user_id, salon_id, name, email, rating, rating_count, created_at, updated_at
		FROM stylists
		WHERE id = $1
	`
	var stylist model.Stylist
	err := sqlx.GetContext(ctx, r.ext(ctx), &stylist, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("stylist")
		}
		return nil, fmt.Errorf("failed to get stylist: %w", err)
	}
	return &stylist, nil
}

func (r *stylistRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Stylist, error) {
	query := `
		SELECT id, user_id, salon_id, name, email, rating, rating_count, created_at, updated_at
		FROM stylists
		WHERE user_id = $1
	`
	var stylist model.Stylist
	err := sqlx.GetContext(ctx, r.ext(ctx), &stylist, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("stylist")
		}
		return nil, fmt.Errorf("failed to get stylist by user id: %w", err)
	}
	return &stylist, nil
}

// RefreshRating recomputes the aggregate in a single statement so it
// sees rows inserted earlier in the same transaction and avoids the
// read-modify-write lost-update race.
func (r *stylistRepository) RefreshRating(ctx context.Context, stylistID uuid.UUID) error {
	query := `
		UPDATE stylists
		SET rating = agg.avg_rating,
			rating_count = agg.review_count,
			updated_at = NOW()
		FROM (
			SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count
			FROM reviews
			WHERE stylist_id = $1
		) agg
		WHERE stylists.id = $1
	`
	result, err := r.ext(ctx).ExecContext(ctx, query, stylistID)
	if err != nil {
		return fmt.Errorf("failed to refresh stylist rating: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("stylist")
	}

	return nil
}
