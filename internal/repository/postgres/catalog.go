package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonbook/booking-api/internal/model"
)

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, salon_id, name, duration, price, created_at, updated_at
		FROM services
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build service query: %w", err)
	}
	query = r.ext(ctx).Rebind(query)

	var services []*model.Service
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &services, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get services: %w", err)
	}
	return services, nil
}
