package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/repository"
	"github.com/salonbook/booking-api/pkg/clock"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
	"github.com/salonbook/booking-api/pkg/validator"
)

type Service struct {
	reviews   repository.ReviewRepository
	bookings  repository.BookingRepository
	customers repository.CustomerRepository
	stylists  repository.StylistRepository
	clock     clock.Clock
}

func NewService(
	reviews repository.ReviewRepository,
	bookings repository.BookingRepository,
	customers repository.CustomerRepository,
	stylists repository.StylistRepository,
	clk clock.Clock,
) *Service {
	return &Service{
		reviews:   reviews,
		bookings:  bookings,
		customers: customers,
		stylists:  stylists,
		clock:     clk,
	}
}

// Submit records a review for a completed booking and recomputes the
// stylist's rating aggregate. The insert and the recompute run in one
// transaction, so the aggregate always reflects the new review and
// concurrent submissions for the same stylist serialize.
func (s *Service) Submit(ctx context.Context, customerUserID uuid.UUID, bookingID uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error) {
	if err := validator.Var(req.Rating, fmt.Sprintf("min=%d,max=%d", model.MinRating, model.MaxRating)); err != nil {
		return nil, apperrors.Validationf("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}

	var review *model.Review
	err := s.reviews.WithTx(ctx, func(ctx context.Context) error {
		customer, err := s.customers.GetByUserID(ctx, customerUserID)
		if err != nil {
			return err
		}

		booking, err := s.bookings.Get(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.CustomerID != customer.ID {
			return apperrors.Forbidden("booking belongs to another customer")
		}
		if booking.Status != model.BookingStatusCompleted {
			return apperrors.Conflict("booking is not completed")
		}

		exists, err := s.reviews.ExistsForBooking(ctx, booking.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("booking already reviewed")
		}

		review = &model.Review{
			ID:         uuid.New(),
			BookingID:  booking.ID,
			CustomerID: customer.ID,
			StylistID:  booking.StylistID,
			Rating:     req.Rating,
			Content:    req.Content,
			CreatedAt:  s.clock.Now(),
		}
		if err := s.reviews.Create(ctx, review); err != nil {
			return err
		}

		return s.stylists.RefreshRating(ctx, booking.StylistID)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}
