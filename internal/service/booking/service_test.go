package booking

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

func TestCreateBooking(t *testing.T) {
	haircut := &model.Service{ID: uuid.New(), Name: "Haircut", Duration: 30, Price: 25}
	coloring := &model.Service{ID: uuid.New(), Name: "Coloring", Duration: 45, Price: 60}

	input := func(env *testEnv, slots []*model.TimeSlot, serviceIDs ...uuid.UUID) *model.CreateBookingInput {
		return &model.CreateBookingInput{
			SalonID:        env.salon.ID,
			StylistID:      env.stylist.ID,
			WorkScheduleID: env.schedule.ID,
			ServiceIDs:     serviceIDs,
			TimeSlotIDs:    slotIDs(slots),
		}
	}

	t.Run("creates pending booking with snapshot lines", func(t *testing.T) {
		env := newTestEnv(haircut, coloring)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 5)
		env.slots.add(slots...)

		view, err := env.svc.CreateBooking(context.Background(), env.customer.UserID,
			input(env, slots, haircut.ID, coloring.ID))
		require.NoError(t, err)

		assert.Equal(t, model.BookingStatusPending, view.Status)
		assert.Equal(t, 85.0, view.TotalPrice)
		assert.Equal(t, slots[0].StartTime, view.StartTime)
		assert.Equal(t, slots[4].EndTime, view.EndTime)
		require.Len(t, view.Services, 2)
		assert.Equal(t, "Haircut", view.Services[0].ServiceName)
		assert.Equal(t, 25.0, view.Services[0].Price)

		stored, err := env.bookings.Get(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, env.customer.ID, stored.CustomerID)
		assert.Equal(t, env.stylist.ID, stored.StylistID)

		for _, slot := range slots {
			assert.True(t, env.slots.slots[slot.ID].IsBooked)
		}
	})

	t.Run("emits creation event for the stylist", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)

		view, err := env.svc.CreateBooking(context.Background(), env.customer.UserID,
			input(env, slots, haircut.ID))
		require.NoError(t, err)

		require.Len(t, env.outbox.events, 1)
		assert.Equal(t, model.EventBookingCreated, env.outbox.events[0].EventType)

		var event model.BookingEvent
		require.NoError(t, json.Unmarshal(env.outbox.events[0].Payload, &event))
		assert.Equal(t, view.ID, event.BookingID)
		assert.Equal(t, env.stylist.UserID, event.RecipientUserID)
		assert.Equal(t, env.stylist.Email, event.RecipientEmail)
		assert.Contains(t, event.Message, "Ada booked Haircut")
	})

	t.Run("fails when a slot was taken", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 2)
		slots[1].IsBooked = true
		env.slots.add(slots...)

		_, err := env.svc.CreateBooking(context.Background(), env.customer.UserID,
			input(env, slots, haircut.ID))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		assert.Empty(t, env.outbox.events)
	})

	t.Run("rejects the same service selected twice", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 4)
		env.slots.add(slots...)

		_, err := env.svc.CreateBooking(context.Background(), env.customer.UserID,
			input(env, slots, haircut.ID, haircut.ID))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		for _, slot := range slots {
			assert.False(t, env.slots.slots[slot.ID].IsBooked)
		}
	})

	t.Run("rejects schedule owned by another stylist", func(t *testing.T) {
		env := newTestEnv(haircut)
		other := &model.WorkSchedule{
			ID:        uuid.New(),
			StylistID: uuid.New(),
			SalonID:   env.salon.ID,
			WorkDate:  env.schedule.WorkDate,
		}
		env.schedules.schedules = append(env.schedules.schedules, other)
		slots := contiguousSlots(other.ID, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)

		in := input(env, slots, haircut.ID)
		in.WorkScheduleID = other.ID
		_, err := env.svc.CreateBooking(context.Background(), env.customer.UserID, in)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "stylist")
	})

	t.Run("rejects slots reserved under a different schedule", func(t *testing.T) {
		env := newTestEnv(haircut)
		other := &model.WorkSchedule{
			ID:        uuid.New(),
			StylistID: uuid.New(),
			SalonID:   env.salon.ID,
			WorkDate:  env.schedule.WorkDate,
		}
		env.schedules.schedules = append(env.schedules.schedules, other)
		slots := contiguousSlots(other.ID, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)

		_, err := env.svc.CreateBooking(context.Background(), env.customer.UserID,
			input(env, slots, haircut.ID))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		for _, slot := range slots {
			assert.False(t, env.slots.slots[slot.ID].IsBooked)
		}
	})

	t.Run("fails for unknown customer", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)

		_, err := env.svc.CreateBooking(context.Background(), uuid.New(),
			input(env, slots, haircut.ID))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("fails for unknown stylist", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)

		in := input(env, slots, haircut.ID)
		in.StylistID = uuid.New()
		_, err := env.svc.CreateBooking(context.Background(), env.customer.UserID, in)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestGetBooking(t *testing.T) {
	haircut := &model.Service{ID: uuid.New(), Name: "Haircut", Duration: 30, Price: 25}

	create := func(t *testing.T, env *testEnv) *model.BookingView {
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)
		view, err := env.svc.CreateBooking(context.Background(), env.customer.UserID, &model.CreateBookingInput{
			SalonID:        env.salon.ID,
			StylistID:      env.stylist.ID,
			WorkScheduleID: env.schedule.ID,
			ServiceIDs:     []uuid.UUID{haircut.ID},
			TimeSlotIDs:    slotIDs(slots),
		})
		require.NoError(t, err)
		return view
	}

	t.Run("owner customer can read", func(t *testing.T) {
		env := newTestEnv(haircut)
		created := create(t, env)

		view, err := env.svc.GetBooking(context.Background(),
			&model.Principal{UserID: env.customer.UserID, Role: model.RoleCustomer}, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, view.ID)
	})

	t.Run("other customer is rejected", func(t *testing.T) {
		env := newTestEnv(haircut)
		created := create(t, env)

		_, err := env.svc.GetBooking(context.Background(),
			&model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}, created.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("assigned stylist can read", func(t *testing.T) {
		env := newTestEnv(haircut)
		created := create(t, env)

		_, err := env.svc.GetBooking(context.Background(),
			&model.Principal{UserID: env.stylist.UserID, Role: model.RoleStylist}, created.ID)
		require.NoError(t, err)
	})

	t.Run("manager scoped to own salon", func(t *testing.T) {
		env := newTestEnv(haircut)
		created := create(t, env)

		_, err := env.svc.GetBooking(context.Background(),
			&model.Principal{UserID: uuid.New(), Role: model.RoleManager, SalonID: env.salon.ID}, created.ID)
		require.NoError(t, err)

		_, err = env.svc.GetBooking(context.Background(),
			&model.Principal{UserID: uuid.New(), Role: model.RoleManager, SalonID: uuid.New()}, created.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("admin can read everything", func(t *testing.T) {
		env := newTestEnv(haircut)
		created := create(t, env)

		_, err := env.svc.GetBooking(context.Background(),
			&model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}, created.ID)
		require.NoError(t, err)
	})

	t.Run("unknown booking", func(t *testing.T) {
		env := newTestEnv(haircut)

		_, err := env.svc.GetBooking(context.Background(),
			&model.Principal{UserID: env.customer.UserID, Role: model.RoleCustomer}, uuid.New())
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestListBookings(t *testing.T) {
	t.Run("customer filter is forced to own id", func(t *testing.T) {
		env := newTestEnv()

		filters := &model.BookingFilters{CustomerID: uuid.New()}
		_, _, err := env.svc.ListBookings(context.Background(),
			&model.Principal{UserID: env.customer.UserID, Role: model.RoleCustomer}, filters)
		require.NoError(t, err)
		assert.Equal(t, env.customer.ID, env.bookings.filters.CustomerID)
	})

	t.Run("stylist filter is forced to own id", func(t *testing.T) {
		env := newTestEnv()

		_, _, err := env.svc.ListBookings(context.Background(),
			&model.Principal{UserID: env.stylist.UserID, Role: model.RoleStylist}, &model.BookingFilters{})
		require.NoError(t, err)
		assert.Equal(t, env.stylist.ID, env.bookings.filters.StylistID)
	})

	t.Run("manager filter is forced to own salon", func(t *testing.T) {
		env := newTestEnv()

		_, _, err := env.svc.ListBookings(context.Background(),
			&model.Principal{UserID: uuid.New(), Role: model.RoleManager, SalonID: env.salon.ID},
			&model.BookingFilters{})
		require.NoError(t, err)
		assert.Equal(t, env.salon.ID, env.bookings.filters.SalonID)
	})

	t.Run("pagination is normalized", func(t *testing.T) {
		env := newTestEnv()

		filters := &model.BookingFilters{Pagination: model.Pagination{Page: 0, Limit: 10000}}
		_, _, err := env.svc.ListBookings(context.Background(),
			&model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}, filters)
		require.NoError(t, err)
		assert.Equal(t, 1, env.bookings.filters.Pagination.Page)
		assert.Equal(t, model.MaxPageLimit, env.bookings.filters.Pagination.Limit)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		env := newTestEnv()

		_, _, err := env.svc.ListBookings(context.Background(),
			&model.Principal{UserID: uuid.New(), Role: model.Role("intern")}, &model.BookingFilters{})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}
