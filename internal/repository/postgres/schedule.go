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

func (r *workScheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkSchedule, error) {
	query := `
		SELECT id, stylist_id, salon_id, work_date
		FROM work_schedules
		WHERE id = $1
	`
	var schedule model.WorkSchedule
	err := sqlx.GetContext(ctx, r.ext(ctx), &schedule, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("work schedule")
		}
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}
	return &schedule, nil
}
