package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

// roleTargets maps a caller role to the statuses it may request.
// Customers can only cancel; stylists can also mark work done. The
// lead-time sub-status (CANCELLED vs CANCELLED_EARLY) is computed, not
// requested.
var roleTargets = map[model.Role]map[model.BookingStatus]bool{
	model.RoleCustomer: {
		model.BookingStatusCancelled: true,
	},
	model.RoleStylist: {
		model.BookingStatusCancelled: true,
		model.BookingStatusCompleted: true,
	},
}

// UpdateStatus moves a booking through the state machine:
// PENDING -> {COMPLETED, CANCELLED, CANCELLED_EARLY}, all terminal.
// Cancellations with less than EarlyCancelLead before the first slot
// are recorded as CANCELLED_EARLY, and cancelled bookings release their
// slots back to availability in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, principal *model.Principal, bookingID uuid.UUID, requested model.BookingStatus) (*model.BookingView, error) {
	targets, ok := roleTargets[principal.Role]
	if !ok {
		return nil, apperrors.Forbidden("role may not change booking status")
	}

	var view *model.BookingView
	err := s.bookings.WithTx(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.Get(ctx, bookingID)
		if err != nil {
			return err
		}

		customer, err := s.customers.Get(ctx, booking.CustomerID)
		if err != nil {
			return err
		}
		stylist, err := s.stylists.Get(ctx, booking.StylistID)
		if err != nil {
			return err
		}

		switch principal.Role {
		case model.RoleCustomer:
			if customer.UserID != principal.UserID {
				return apperrors.Forbidden("booking belongs to another customer")
			}
		case model.RoleStylist:
			if stylist.UserID != principal.UserID {
				return apperrors.Forbidden("booking belongs to another stylist")
			}
		}

		if !targets[requested] {
			if principal.Role == model.RoleCustomer {
				return apperrors.Forbidden("customers may only cancel bookings")
			}
			return apperrors.Validationf("stylists may only set booking status to %s or %s",
				model.BookingStatusCompleted, model.BookingStatusCancelled)
		}

		if booking.Status.Terminal() {
			return apperrors.Conflict(fmt.Sprintf("booking is already %s", booking.Status))
		}

		if len(booking.Slots) == 0 {
			return apperrors.Internal(fmt.Errorf("booking %s has no linked time slots", booking.ID))
		}

		target := requested
		if requested == model.BookingStatusCancelled {
			lead := booking.Slots[0].StartTime.Sub(s.clock.Now())
			if lead < EarlyCancelLead {
				target = model.BookingStatusCancelledEarly
			}
			if err := s.slots.ReleaseForBooking(ctx, booking.ID); err != nil {
				return err
			}
		}

		if err := s.bookings.UpdateStatus(ctx, booking.ID, model.BookingStatusPending, target); err != nil {
			return err
		}
		booking.Status = target

		if err := s.emitStatusEvent(ctx, principal, booking, customer, stylist); err != nil {
			return err
		}

		salon, err := s.salons.Get(ctx, booking.SalonID)
		if err != nil {
			return err
		}
		view = newBookingView(booking, customer, stylist, salon)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking status updated",
		"booking_id", view.ID.String(),
		"status", string(view.Status))
	return view, nil
}

// emitStatusEvent notifies the counterparty of the change: the stylist
// when a customer cancels, the customer otherwise.
func (s *Service) emitStatusEvent(ctx context.Context, principal *model.Principal, booking *model.Booking, customer *model.Customer, stylist *model.Stylist) error {
	recipientUserID := customer.UserID
	recipientEmail := customer.Email
	if principal.Role == model.RoleCustomer {
		recipientUserID = stylist.UserID
		recipientEmail = stylist.Email
	}

	eventType := model.EventBookingCancelled
	title := "Booking cancelled"
	message := fmt.Sprintf("The appointment on %s at %s was cancelled",
		booking.Slots[0].StartTime.Format("2006-01-02"),
		booking.Slots[0].StartTime.Format("15:04"))
	if booking.Status == model.BookingStatusCompleted {
		eventType = model.EventBookingCompleted
		title = "Booking completed"
		message = fmt.Sprintf("The appointment on %s was marked as completed",
			booking.Slots[0].StartTime.Format("2006-01-02"))
	}

	return s.emitBookingEvent(ctx, eventType, &model.BookingEvent{
		BookingID:       booking.ID,
		RecipientUserID: recipientUserID,
		RecipientEmail:  recipientEmail,
		Title:           title,
		Message:         message,
	})
}
