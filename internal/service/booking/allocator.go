package booking

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

// Business rule constants
const (
	// SlotGranularity is the platform-wide slot size every working day
	// is divided into.
	SlotGranularity = 15 * time.Minute

	// EarlyCancelLead is the minimum lead time for a regular
	// cancellation; anything shorter is recorded as CANCELLED_EARLY.
	EarlyCancelLead = 3 * time.Hour
)

// reservedBlock is the validated, ordered outcome of an allocation.
type reservedBlock struct {
	services   []*model.Service
	slots      []*model.TimeSlot
	totalPrice float64
}

func requiredSlotCount(services []*model.Service) int {
	totalMinutes := 0
	for _, svc := range services {
		totalMinutes += svc.Duration
	}
	granularity := int(SlotGranularity.Minutes())
	return (totalMinutes + granularity - 1) / granularity
}

// allocate validates the requested slots against the selected services
// and reserves them. Slots must all belong to workScheduleID, which the
// caller has already tied to the booked stylist. The exact-count rule
// plus the contiguity rule guarantee one unbroken reservation window,
// so the first slot's start is always the appointment start. Must run
// inside the transaction that persists the booking; LockAvailable's row
// locks are what close the check-then-reserve race.
func (s *Service) allocate(ctx context.Context, workScheduleID uuid.UUID, serviceIDs, slotIDs []uuid.UUID) (*reservedBlock, error) {
	services, err := s.catalog.Resolve(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	required := requiredSlotCount(services)
	if len(slotIDs) < required {
		return nil, apperrors.Validationf("select at least %d time slots", required)
	}
	if len(slotIDs) > required {
		return nil, apperrors.Validationf("only %d time slots are needed", required)
	}

	slots, err := s.slots.LockAvailable(ctx, slotIDs)
	if err != nil {
		return nil, err
	}
	if len(slots) != len(slotIDs) {
		return nil, apperrors.Conflict("one or more time slots are no longer available")
	}

	for _, slot := range slots {
		if slot.WorkScheduleID != workScheduleID {
			return nil, apperrors.Validation("time slots do not belong to the selected work schedule")
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})

	now := s.clock.Now()
	for _, slot := range slots {
		if !slot.StartTime.After(now) {
			return nil, apperrors.Validation("time slots must be in the future")
		}
	}

	for i := 0; i < len(slots)-1; i++ {
		if !slots[i].EndTime.Equal(slots[i+1].StartTime) {
			return nil, apperrors.Validation("selected time slots must be contiguous")
		}
	}

	var totalPrice float64
	for _, svc := range services {
		totalPrice += svc.Price
	}

	return &reservedBlock{
		services:   services,
		slots:      slots,
		totalPrice: totalPrice,
	}, nil
}
