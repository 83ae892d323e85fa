package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonbook/booking-api/internal/model"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

func TestRequiredSlotCount(t *testing.T) {
	tests := []struct {
		name      string
		durations []int
		want      int
	}{
		{"single quarter hour", []int{15}, 1},
		{"rounds up within a slot", []int{20}, 2},
		{"haircut plus coloring", []int{30, 45}, 5},
		{"sum rounds up once", []int{25, 25}, 4},
		{"exact multiple", []int{60}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := make([]*model.Service, len(tt.durations))
			for i, d := range tt.durations {
				services[i] = &model.Service{Duration: d}
			}
			assert.Equal(t, tt.want, requiredSlotCount(services))
		})
	}
}

func TestAllocate(t *testing.T) {
	haircut := &model.Service{ID: uuid.New(), Name: "Haircut", Duration: 30, Price: 25}
	coloring := &model.Service{ID: uuid.New(), Name: "Coloring", Duration: 45, Price: 60}
	serviceIDs := []uuid.UUID{haircut.ID, coloring.ID}

	t.Run("reserves exactly matching block", func(t *testing.T) {
		env := newTestEnv(haircut, coloring)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 5)
		env.slots.add(slots...)

		block, err := env.svc.allocate(context.Background(), env.schedule.ID, serviceIDs, slotIDs(slots))
		require.NoError(t, err)

		assert.Len(t, block.slots, 5)
		assert.Equal(t, 85.0, block.totalPrice)
		assert.Equal(t, slots[0].StartTime, block.slots[0].StartTime)
	})

	t.Run("orders slots by start time", func(t *testing.T) {
		env := newTestEnv(haircut, coloring)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 5)
		env.slots.add(slots...)

		shuffled := []uuid.UUID{slots[3].ID, slots[0].ID, slots[4].ID, slots[1].ID, slots[2].ID}
		block, err := env.svc.allocate(context.Background(), env.schedule.ID, serviceIDs, shuffled)
		require.NoError(t, err)

		for i := 0; i < len(block.slots)-1; i++ {
			assert.True(t, block.slots[i].StartTime.Before(block.slots[i+1].StartTime))
		}
	})

	t.Run("rejects too few slots", func(t *testing.T) {
		env := newTestEnv(haircut, coloring)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 4)
		env.slots.add(slots...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, serviceIDs, slotIDs(slots))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "select at least 5 time slots")
	})

	t.Run("rejects too many slots", func(t *testing.T) {
		env := newTestEnv(haircut, coloring)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 6)
		env.slots.add(slots...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, serviceIDs, slotIDs(slots))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "only 5 time slots are needed")
	})

	t.Run("rejects already booked slot", func(t *testing.T) {
		env := newTestEnv(haircut, coloring)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 5)
		slots[2].IsBooked = true
		env.slots.add(slots...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, serviceIDs, slotIDs(slots))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("rejects past slots", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(-time.Hour), 2)
		env.slots.add(slots...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, []uuid.UUID{haircut.ID}, slotIDs(slots))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "future")
	})

	t.Run("rejects slot starting exactly now", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now, 2)
		env.slots.add(slots...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, []uuid.UUID{haircut.ID}, slotIDs(slots))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects non-contiguous slots", func(t *testing.T) {
		env := newTestEnv(haircut)
		first := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 1)
		second := contiguousSlots(env.schedule.ID, env.now.Add(25*time.Hour), 1)
		env.slots.add(first...)
		env.slots.add(second...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, []uuid.UUID{haircut.ID},
			[]uuid.UUID{first[0].ID, second[0].ID})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "contiguous")
	})

	t.Run("rejects slots from another schedule", func(t *testing.T) {
		env := newTestEnv(haircut)
		otherSchedule := uuid.New()
		slots := contiguousSlots(otherSchedule, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, []uuid.UUID{haircut.ID}, slotIDs(slots))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "work schedule")

		for _, slot := range slots {
			assert.False(t, env.slots.slots[slot.ID].IsBooked)
		}
	})

	t.Run("rejects unknown service", func(t *testing.T) {
		env := newTestEnv(haircut)
		slots := contiguousSlots(env.schedule.ID, env.now.Add(24*time.Hour), 2)
		env.slots.add(slots...)

		_, err := env.svc.allocate(context.Background(), env.schedule.ID, []uuid.UUID{uuid.New()}, slotIDs(slots))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}
