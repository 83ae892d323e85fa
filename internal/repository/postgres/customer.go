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

func (r *customerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `
		SELECT id, user_id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	var customer model.Customer
	err := sqlx.GetContext(ctx, r.ext(ctx), &customer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("customer")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	query := `
		SELECT id, user_id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE user_id = $1
	`
	var customer model.Customer
	err := sqlx.GetContext(ctx, r.ext(ctx), &customer, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("customer")
		}
		return nil, fmt.Errorf("failed to get customer by user id: %w", err)
	}
	return &customer, nil
}
