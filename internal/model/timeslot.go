package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkSchedule is one stylist's working day; its time slots carry the
// schedule id and may only be booked against it.
type WorkSchedule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	StylistID uuid.UUID `db:"stylist_id" json:"stylist_id"`
	SalonID   uuid.UUID `db:"salon_id" json:"salon_id"`
	WorkDate  time.Time `db:"work_date" json:"work_date"`
}

// TimeSlot is a fixed-granularity unit of a stylist's working day.
// IsBooked is true iff the slot is linked to a live booking; it is only
// flipped inside the transaction that creates or cancels that booking.
type TimeSlot struct {
	ID             uuid.UUID `db:"id" json:"id"`
	WorkScheduleID uuid.UUID `db:"work_schedule_id" json:"work_schedule_id"`
	StartTime      time.Time `db:"start_time" json:"start_time"`
	EndTime        time.Time `db:"end_time" json:"end_time"`
	IsBooked       bool      `db:"is_booked" json:"is_booked"`
}
