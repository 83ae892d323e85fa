package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/pkg/clock"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
	"github.com/salonbook/booking-api/pkg/logger"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
	filters  *model.BookingFilters
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}
}

func (f *fakeBookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking")
	}
	return booking, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.BookingStatus) error {
	booking, ok := f.bookings[id]
	if !ok {
		return apperrors.NotFound("booking")
	}
	if booking.Status != from {
		return apperrors.Conflict("booking status changed concurrently")
	}
	booking.Status = to
	return nil
}

func (f *fakeBookingRepo) List(_ context.Context, filters *model.BookingFilters) ([]*model.Booking, int, error) {
	f.filters = filters
	var result []*model.Booking
	for _, b := range f.bookings {
		result = append(result, b)
	}
	return result, len(result), nil
}

type fakeSlotRepo struct {
	slots    map[uuid.UUID]*model.TimeSlot
	released []uuid.UUID
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*model.TimeSlot)}
}

func (f *fakeSlotRepo) add(slots ...*model.TimeSlot) {
	for _, slot := range slots {
		f.slots[slot.ID] = slot
	}
}

func (f *fakeSlotRepo) LockAvailable(_ context.Context, ids []uuid.UUID) ([]*model.TimeSlot, error) {
	var available []*model.TimeSlot
	for _, id := range ids {
		slot, ok := f.slots[id]
		if !ok || slot.IsBooked {
			continue
		}
		copied := *slot
		available = append(available, &copied)
	}
	return available, nil
}

func (f *fakeSlotRepo) MarkBooked(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		slot, ok := f.slots[id]
		if !ok || slot.IsBooked {
			return apperrors.Conflict("one or more time slots are no longer available")
		}
	}
	for _, id := range ids {
		f.slots[id].IsBooked = true
	}
	return nil
}

func (f *fakeSlotRepo) ReleaseForBooking(_ context.Context, bookingID uuid.UUID) error {
	f.released = append(f.released, bookingID)
	return nil
}

type fakeCustomerRepo struct {
	customers []*model.Customer
}

func (f *fakeCustomerRepo) Get(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NotFound("customer")
}

func (f *fakeCustomerRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, apperrors.NotFound("customer")
}

type fakeStylistRepo struct {
	stylists  []*model.Stylist
	refreshed []uuid.UUID
}

func (f *fakeStylistRepo) Get(_ context.Context, id uuid.UUID) (*model.Stylist, error) {
	for _, s := range f.stylists {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.NotFound("stylist")
}

func (f *fakeStylistRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Stylist, error) {
	for _, s := range f.stylists {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, apperrors.NotFound("stylist")
}

func (f *fakeStylistRepo) RefreshRating(_ context.Context, stylistID uuid.UUID) error {
	f.refreshed = append(f.refreshed, stylistID)
	return nil
}

type fakeScheduleRepo struct {
	schedules []*model.WorkSchedule
}

func (f *fakeScheduleRepo) Get(_ context.Context, id uuid.UUID) (*model.WorkSchedule, error) {
	for _, schedule := range f.schedules {
		if schedule.ID == id {
			return schedule, nil
		}
	}
	return nil, apperrors.NotFound("work schedule")
}

type fakeSalonRepo struct {
	salons []*model.Salon
}

func (f *fakeSalonRepo) Get(_ context.Context, id uuid.UUID) (*model.Salon, error) {
	for _, s := range f.salons {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.NotFound("salon")
}

type fakeCatalog struct {
	services map[uuid.UUID]*model.Service
}

func newFakeCatalog(services ...*model.Service) *fakeCatalog {
	catalog := &fakeCatalog{services: make(map[uuid.UUID]*model.Service)}
	for _, svc := range services {
		catalog.services[svc.ID] = svc
	}
	return catalog
}

func (f *fakeCatalog) Resolve(_ context.Context, ids []uuid.UUID) ([]*model.Service, error) {
	if len(ids) == 0 {
		return nil, apperrors.Validation("at least one service must be selected")
	}
	resolved := make([]*model.Service, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, apperrors.Validation("each service may be selected only once")
		}
		seen[id] = struct{}{}
		svc, ok := f.services[id]
		if !ok {
			return nil, apperrors.NotFound("service")
		}
		resolved = append(resolved, svc)
	}
	return resolved, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingWithLock(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ *time.Time) error {
	return nil
}

// testEnv wires a Service over fakes with one customer, stylist, salon
// and work schedule pre-seeded.
type testEnv struct {
	svc       *Service
	bookings  *fakeBookingRepo
	slots     *fakeSlotRepo
	customers *fakeCustomerRepo
	stylists  *fakeStylistRepo
	schedules *fakeScheduleRepo
	outbox    *fakeOutboxRepo
	catalog   *fakeCatalog

	now      time.Time
	customer *model.Customer
	stylist  *model.Stylist
	salon    *model.Salon
	schedule *model.WorkSchedule
}

func newTestEnv(services ...*model.Service) *testEnv {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	salon := &model.Salon{ID: uuid.New(), Name: "Uptown Cuts", Address: "12 High St"}
	customer := &model.Customer{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "Ada",
		Email:  "ada@example.com",
	}
	stylist := &model.Stylist{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		SalonID: salon.ID,
		Name:    "Marco",
		Email:   "marco@example.com",
	}
	schedule := &model.WorkSchedule{
		ID:        uuid.New(),
		StylistID: stylist.ID,
		SalonID:   salon.ID,
		WorkDate:  now.Add(24 * time.Hour).Truncate(24 * time.Hour),
	}

	env := &testEnv{
		bookings:  newFakeBookingRepo(),
		slots:     newFakeSlotRepo(),
		customers: &fakeCustomerRepo{customers: []*model.Customer{customer}},
		stylists:  &fakeStylistRepo{stylists: []*model.Stylist{stylist}},
		schedules: &fakeScheduleRepo{schedules: []*model.WorkSchedule{schedule}},
		outbox:    &fakeOutboxRepo{},
		catalog:   newFakeCatalog(services...),
		now:       now,
		customer:  customer,
		stylist:   stylist,
		salon:     salon,
		schedule:  schedule,
	}

	env.svc = NewService(
		env.bookings,
		env.slots,
		env.customers,
		env.stylists,
		&fakeSalonRepo{salons: []*model.Salon{salon}},
		env.schedules,
		env.catalog,
		env.outbox,
		clock.NewFixed(now),
		logger.NewLogger(nil),
	)
	return env
}

// contiguousSlots builds n back-to-back 15-minute slots of the given
// schedule starting at start.
func contiguousSlots(scheduleID uuid.UUID, start time.Time, n int) []*model.TimeSlot {
	slots := make([]*model.TimeSlot, n)
	for i := 0; i < n; i++ {
		slotStart := start.Add(time.Duration(i) * SlotGranularity)
		slots[i] = &model.TimeSlot{
			ID:             uuid.New(),
			WorkScheduleID: scheduleID,
			StartTime:      slotStart,
			EndTime:        slotStart.Add(SlotGranularity),
		}
	}
	return slots
}

func slotIDs(slots []*model.TimeSlot) []uuid.UUID {
	ids := make([]uuid.UUID, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}
	return ids
}
