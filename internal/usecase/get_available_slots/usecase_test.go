package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

type slotRepoFake struct {
	slots []*domain.Slot

	gotDayStart time.Time
	gotDayEnd   time.Time
}

func (f *slotRepoFake) ListByServiceAndDate(ctx context.Context, tenantID, serviceID uuid.UUID, dayStart, dayEnd time.Time) ([]*domain.Slot, error) {
	f.gotDayStart = dayStart
	f.gotDayEnd = dayEnd
	return f.slots, nil
}

type lockRepoFake struct {
	sums map[uuid.UUID]int

	gotSlotIDs []uuid.UUID
}

func (f *lockRepoFake) SumActiveBySlots(ctx context.Context, slotIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error) {
	f.gotSlotIDs = slotIDs
	return f.sums, nil
}

type loggerFake struct{}

func (loggerFake) Info(format string, v ...interface{})  {}
func (loggerFake) Warn(format string, v ...interface{})  {}
func (loggerFake) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func TestExecute_EffectiveAvailabilitySubtractsActiveLocks(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	serviceID := uuid.New()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	free := &domain.Slot{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceID:         serviceID,
		StartTime:         now.Add(time.Hour),
		EndTime:           now.Add(2 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 10,
		IsAvailable:       true,
	}
	locked := &domain.Slot{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceID:         serviceID,
		StartTime:         now.Add(3 * time.Hour),
		EndTime:           now.Add(4 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 6,
		IsAvailable:       true,
	}

	slots := &slotRepoFake{slots: []*domain.Slot{free, locked}}
	locks := &lockRepoFake{sums: map[uuid.UUID]int{locked.ID: 4}}

	uc := NewUseCase(slots, locks, loggerFake{})
	uc.timeProvider = fixedTime{now}

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Date:      date,
	})
	require.NoError(t, err)

	assert.Equal(t, date, slots.gotDayStart)
	assert.Equal(t, date.Add(24*time.Hour), slots.gotDayEnd)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, 10, resp.Slots[0].EffectiveAvailable)
	assert.Equal(t, 2, resp.Slots[1].EffectiveAvailable)
	assert.Equal(t, "2026-03-14", resp.Date)
}

func TestExecute_PastSlotsAreHidden(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	serviceID := uuid.New()

	past := &domain.Slot{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceID:         serviceID,
		StartTime:         now.Add(-time.Hour),
		EndTime:           now,
		TotalCapacity:     10,
		RemainingCapacity: 10,
		IsAvailable:       true,
	}
	upcoming := &domain.Slot{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceID:         serviceID,
		StartTime:         now.Add(time.Hour),
		EndTime:           now.Add(2 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 10,
		IsAvailable:       true,
	}

	slots := &slotRepoFake{slots: []*domain.Slot{past, upcoming}}
	locks := &lockRepoFake{}

	uc := NewUseCase(slots, locks, loggerFake{})
	uc.timeProvider = fixedTime{now}

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, upcoming.ID, resp.Slots[0].ID)
	assert.Equal(t, []uuid.UUID{upcoming.ID}, locks.gotSlotIDs)
}

func TestExecute_LocksNeverShowNegativeAvailability(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	serviceID := uuid.New()

	slot := &domain.Slot{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceID:         serviceID,
		StartTime:         now.Add(time.Hour),
		EndTime:           now.Add(2 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 2,
		IsAvailable:       true,
	}

	slots := &slotRepoFake{slots: []*domain.Slot{slot}}
	locks := &lockRepoFake{sums: map[uuid.UUID]int{slot.ID: 5}}

	uc := NewUseCase(slots, locks, loggerFake{})
	uc.timeProvider = fixedTime{now}

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 0, resp.Slots[0].EffectiveAvailable)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := NewUseCase(&slotRepoFake{}, &lockRepoFake{}, loggerFake{})

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: uuid.New(),
		Date:      time.Now(),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		TenantID: uuid.New(),
		Date:     time.Now(),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
