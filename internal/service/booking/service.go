package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/repository"
	"github.com/salonbook/booking-api/pkg/clock"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
	"github.com/salonbook/booking-api/pkg/logger"
)

// CatalogReader resolves service ids to duration/price snapshots.
type CatalogReader interface {
	Resolve(ctx context.Context, ids []uuid.UUID) ([]*model.Service, error)
}

type Service struct {
	bookings  repository.BookingRepository
	slots     repository.TimeSlotRepository
	customers repository.CustomerRepository
	stylists  repository.StylistRepository
	salons    repository.SalonRepository
	schedules repository.WorkScheduleRepository
	catalog   CatalogReader
	outbox    repository.OutboxRepository
	clock     clock.Clock
	logger    *logger.Logger
}

func NewService(
	bookings repository.BookingRepository,
	slots repository.TimeSlotRepository,
	customers repository.CustomerRepository,
	stylists repository.StylistRepository,
	salons repository.SalonRepository,
	schedules repository.WorkScheduleRepository,
	catalog CatalogReader,
	outbox repository.OutboxRepository,
	clk clock.Clock,
	logger *logger.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		slots:     slots,
		customers: customers,
		stylists:  stylists,
		salons:    salons,
		schedules: schedules,
		catalog:   catalog,
		outbox:    outbox,
		clock:     clk,
		logger:    logger,
	}
}

// CreateBooking reserves a contiguous slot block for the selected
// services and persists the booking aggregate in one transaction.
// The stylist notification goes through the outbox, so it is only
// dispatched after the reservation commits.
func (s *Service) CreateBooking(ctx context.Context, customerUserID uuid.UUID, in *model.CreateBookingInput) (*model.BookingView, error) {
	var view *model.BookingView

	err := s.bookings.WithTx(ctx, func(ctx context.Context) error {
		customer, err := s.customers.GetByUserID(ctx, customerUserID)
		if err != nil {
			return err
		}
		stylist, err := s.stylists.Get(ctx, in.StylistID)
		if err != nil {
			return err
		}
		salon, err := s.salons.Get(ctx, in.SalonID)
		if err != nil {
			return err
		}

		schedule, err := s.schedules.Get(ctx, in.WorkScheduleID)
		if err != nil {
			return err
		}
		if schedule.StylistID != stylist.ID {
			return apperrors.Validation("work schedule does not belong to the selected stylist")
		}

		block, err := s.allocate(ctx, schedule.ID, in.ServiceIDs, in.TimeSlotIDs)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		booking := &model.Booking{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			StylistID:  stylist.ID,
			SalonID:    salon.ID,
			TotalPrice: block.totalPrice,
			Status:     model.BookingStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for _, svc := range block.services {
			booking.ServiceLines = append(booking.ServiceLines, model.BookingServiceLine{
				BookingID:   booking.ID,
				ServiceID:   svc.ID,
				ServiceName: svc.Name,
				Price:       svc.Price,
			})
		}
		for _, slot := range block.slots {
			booking.Slots = append(booking.Slots, *slot)
		}

		if err := s.bookings.Create(ctx, booking); err != nil {
			return err
		}
		if err := s.slots.MarkBooked(ctx, in.TimeSlotIDs); err != nil {
			return err
		}

		if err := s.emitBookingEvent(ctx, model.EventBookingCreated, &model.BookingEvent{
			BookingID:       booking.ID,
			RecipientUserID: stylist.UserID,
			RecipientEmail:  stylist.Email,
			Title:           "New booking",
			Message:         bookingSummary(customer.Name, booking.Slots, block.services),
		}); err != nil {
			return err
		}

		view = newBookingView(booking, customer, stylist, salon)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		"booking_id", view.ID.String(),
		"stylist_id", view.Stylist.ID.String(),
		"slots", len(view.Slots))
	return view, nil
}

// GetBooking loads a booking and enforces role-based read access:
// customers and stylists see their own bookings, managers see their
// salon's, admins see everything.
func (s *Service) GetBooking(ctx context.Context, principal *model.Principal, id uuid.UUID) (*model.BookingView, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.Get(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	stylist, err := s.stylists.Get(ctx, booking.StylistID)
	if err != nil {
		return nil, err
	}

	switch principal.Role {
	case model.RoleCustomer:
		if customer.UserID != principal.UserID {
			return nil, apperrors.Forbidden("booking belongs to another customer")
		}
	case model.RoleStylist:
		if stylist.UserID != principal.UserID {
			return nil, apperrors.Forbidden("booking belongs to another stylist")
		}
	case model.RoleManager:
		if booking.SalonID != principal.SalonID {
			return nil, apperrors.Forbidden("booking belongs to another salon")
		}
	case model.RoleAdmin:
	default:
		return nil, apperrors.Forbidden("role may not read bookings")
	}

	salon, err := s.salons.Get(ctx, booking.SalonID)
	if err != nil {
		return nil, err
	}

	return newBookingView(booking, customer, stylist, salon), nil
}

// ListBookings scopes the filter set to what the caller is allowed to
// see before delegating to the repository.
func (s *Service) ListBookings(ctx context.Context, principal *model.Principal, filters *model.BookingFilters) ([]*model.Booking, int, error) {
	switch principal.Role {
	case model.RoleCustomer:
		customer, err := s.customers.GetByUserID(ctx, principal.UserID)
		if err != nil {
			return nil, 0, err
		}
		filters.CustomerID = customer.ID
	case model.RoleStylist:
		stylist, err := s.stylists.GetByUserID(ctx, principal.UserID)
		if err != nil {
			return nil, 0, err
		}
		filters.StylistID = stylist.ID
	case model.RoleManager:
		filters.SalonID = principal.SalonID
	case model.RoleAdmin:
	default:
		return nil, 0, apperrors.Forbidden("role may not list bookings")
	}

	filters.Pagination.Normalize()
	return s.bookings.List(ctx, filters)
}

func (s *Service) emitBookingEvent(ctx context.Context, eventType string, evt *model.BookingEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}
	return s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	})
}

func bookingSummary(customerName string, slots []model.TimeSlot, services []*model.Service) string {
	names := make([]string, len(services))
	for i, svc := range services {
		names[i] = svc.Name
	}
	first := slots[0].StartTime
	last := slots[len(slots)-1].EndTime
	return fmt.Sprintf("%s booked %s on %s from %s to %s",
		customerName,
		strings.Join(names, ", "),
		first.Format("2006-01-02"),
		first.Format("15:04"),
		last.Format("15:04"),
	)
}

func newBookingView(b *model.Booking, customer *model.Customer, stylist *model.Stylist, salon *model.Salon) *model.BookingView {
	view := &model.BookingView{
		ID:         b.ID,
		Status:     b.Status,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
		Customer: model.CustomerView{
			ID:   customer.ID,
			Name: customer.Name,
		},
		Stylist: model.StylistView{
			ID:          stylist.ID,
			Name:        stylist.Name,
			Rating:      stylist.Rating,
			RatingCount: stylist.RatingCount,
		},
		Salon: model.SalonView{
			ID:      salon.ID,
			Name:    salon.Name,
			Address: salon.Address,
		},
		Services: b.ServiceLines,
		Slots:    b.Slots,
	}
	if len(b.Slots) > 0 {
		view.StartTime = b.Slots[0].StartTime
		view.EndTime = b.Slots[len(b.Slots)-1].EndTime
	}
	return view
}
