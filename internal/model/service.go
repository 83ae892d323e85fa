package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is a catalog entry. Duration and price are snapshotted into
// booking line items at reservation time; later catalog edits never
// alter historical bookings.
type Service struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SalonID   uuid.UUID `db:"salon_id" json:"salon_id"`
	Name      string    `db:"name" json:"name"`
	Duration  int       `db:"duration" json:"duration"` // in minutes
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
