package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is created at most once per completed booking and is never
// updated or deleted afterwards.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	BookingID  uuid.UUID `db:"booking_id" json:"booking_id"`
	CustomerID uuid.UUID `db:"customer_id" json:"customer_id"`
	StylistID  uuid.UUID `db:"stylist_id" json:"stylist_id"`
	Rating     int       `db:"rating" json:"rating"`
	Content    string    `db:"content" json:"content,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"max=2000"`
}
