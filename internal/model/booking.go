package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "PENDING"
	BookingStatusCompleted      BookingStatus = "COMPLETED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
	BookingStatusCancelledEarly BookingStatus = "CANCELLED_EARLY"
)

// Terminal reports whether no further status transition is permitted.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusCancelledEarly
}

type Booking struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	CustomerID uuid.UUID     `db:"customer_id" json:"customer_id"`
	StylistID  uuid.UUID     `db:"stylist_id" json:"stylist_id"`
	SalonID    uuid.UUID     `db:"salon_id" json:"salon_id"`
	TotalPrice float64       `db:"total_price" json:"total_price"`
	Status     BookingStatus `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`

	// Loaded with the booking: immutable service line items and the
	// reserved slots ordered by start time.
	ServiceLines []BookingServiceLine `db:"-" json:"service_lines,omitempty"`
	Slots        []TimeSlot           `db:"-" json:"slots,omitempty"`
}

// BookingServiceLine is an immutable price snapshot of a selected service.
type BookingServiceLine struct {
	BookingID   uuid.UUID `db:"booking_id" json:"booking_id"`
	ServiceID   uuid.UUID `db:"service_id" json:"service_id"`
	ServiceName string    `db:"service_name" json:"service_name"`
	Price       float64   `db:"price" json:"price"`
}

type BookingFilters struct {
	CustomerID uuid.UUID
	StylistID  uuid.UUID
	SalonID    uuid.UUID
	Status     BookingStatus
	FromDate   time.Time
	ToDate     time.Time
	Pagination Pagination
}

type CreateBookingRequest struct {
	SalonID        string   `json:"salon_id" binding:"required,uuid"`
	StylistID      string   `json:"stylist_id" binding:"required,uuid"`
	WorkScheduleID string   `json:"work_schedule_id" binding:"required,uuid"`
	ServiceIDs     []string `json:"service_ids" binding:"required,min=1,dive,uuid"`
	TimeSlotIDs    []string `json:"time_slot_ids" binding:"required,min=1,dive,uuid"`
}

type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// CreateBookingInput is the parsed form of CreateBookingRequest.
type CreateBookingInput struct {
	SalonID        uuid.UUID
	StylistID      uuid.UUID
	WorkScheduleID uuid.UUID
	ServiceIDs     []uuid.UUID
	TimeSlotIDs    []uuid.UUID
}

// BookingView is the read view returned by booking operations, joined
// with customer/stylist/salon display data.
type BookingView struct {
	ID         uuid.UUID     `json:"id"`
	Status     BookingStatus `json:"status"`
	TotalPrice float64       `json:"total_price"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	CreatedAt  time.Time     `json:"created_at"`

	Customer CustomerView         `json:"customer"`
	Stylist  StylistView          `json:"stylist"`
	Salon    SalonView            `json:"salon"`
	Services []BookingServiceLine `json:"services"`
	Slots    []TimeSlot           `json:"slots"`
}

type CustomerView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type StylistView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"rating_count"`
}

type SalonView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}
