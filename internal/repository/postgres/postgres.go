package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/salonbook/booking-api/internal/repository"
)

type bookingRepository struct {
	BaseRepository
}

type timeSlotRepository struct {
	BaseRepository
}

type serviceRepository struct {
	BaseRepository
}

type workScheduleRepository struct {
	BaseRepository
}

type customerRepository struct {
	BaseRepository
}

type stylistRepository struct {
	BaseRepository
}

type salonRepository struct {
	BaseRepository
}

type reviewRepository struct {
	BaseRepository
}

type notificationRepository struct {
	BaseRepository
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{NewBaseRepository(db)}
}

func NewTimeSlotRepository(db *sqlx.DB) repository.TimeSlotRepository {
	return &timeSlotRepository{NewBaseRepository(db)}
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{NewBaseRepository(db)}
}

func NewWorkScheduleRepository(db *sqlx.DB) repository.WorkScheduleRepository {
	return &workScheduleRepository{NewBaseRepository(db)}
}

func NewCustomerRepository(db *sqlx.DB) repository.CustomerRepository {
	return &customerRepository{NewBaseRepository(db)}
}

func NewStylistRepository(db *sqlx.DB) repository.StylistRepository {
	return &stylistRepository{NewBaseRepository(db)}
}

func NewSalonRepository(db *sqlx.DB) repository.SalonRepository {
	return &salonRepository{NewBaseRepository(db)}
}

func NewReviewRepository(db *sqlx.DB) repository.ReviewRepository {
	return &reviewRepository{NewBaseRepository(db)}
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{NewBaseRepository(db)}
}
