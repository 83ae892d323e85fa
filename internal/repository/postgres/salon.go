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

func (r *salonRepository) Get(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	query := `
		SELECT id, name, address, phone, created_at, updated_at
		FROM salons
		WHERE id = $1
	`
	var salon model.Salon
	err := sqlx.GetContext(ctx, r.ext(ctx), &salon, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("salon")
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	return &salon, nil
}
