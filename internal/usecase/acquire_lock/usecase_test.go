package acquire_lock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	slotRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/slot"
)

type slotRepoFake struct {
	slot   *domain.Slot
	getErr error
}

func (f *slotRepoFake) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

type lockRepoFake struct {
	activeSum int
	created   *domain.BookingLock
}

func (f *lockRepoFake) Create(ctx context.Context, l *domain.BookingLock) (*domain.BookingLock, error) {
	l.CreatedAt = time.Now()
	f.created = l
	return l, nil
}

func (f *lockRepoFake) SumActiveBySlot(ctx context.Context, slotID uuid.UUID, now time.Time, excludeLockID *uuid.UUID) (int, error) {
	return f.activeSum, nil
}

type txManagerFake struct{}

func (txManagerFake) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type loggerFake struct{}

func (loggerFake) Info(format string, v ...interface{})  {}
func (loggerFake) Warn(format string, v ...interface{})  {}
func (loggerFake) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func testEnv() (*slotRepoFake, *lockRepoFake, *UseCase, time.Time) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	slots := &slotRepoFake{slot: &domain.Slot{
		ID:                uuid.New(),
		TenantID:          uuid.New(),
		ServiceID:         uuid.New(),
		StartTime:         now.Add(time.Hour),
		EndTime:           now.Add(2 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 6,
		IsAvailable:       true,
	}}
	locks := &lockRepoFake{}

	uc := NewUseCase(slots, locks, txManagerFake{}, 2*time.Minute, 50, loggerFake{})
	uc.timeProvider = fixedTime{now}

	return slots, locks, uc, now
}

func TestExecute_AcquiresLockWithGeneratedSession(t *testing.T) {
	slots, locks, uc, now := testEnv()

	resp, err := uc.Execute(context.Background(), &Request{
		SlotID:           slots.slot.ID,
		ReservedCapacity: 2,
	})
	require.NoError(t, err)

	require.NotNil(t, locks.created)
	assert.Equal(t, slots.slot.ID, locks.created.SlotID)
	assert.Equal(t, 2, locks.created.ReservedCapacity)
	assert.Equal(t, now.Add(2*time.Minute), locks.created.LockExpiresAt)

	// Сессия сгенерирована и возвращена клиенту
	assert.NotEqual(t, uuid.Nil, resp.SessionID)
	assert.Equal(t, locks.created.SessionID, resp.SessionID)
	assert.Equal(t, 120, resp.ExpiresInSeconds)
}

func TestExecute_ReusesProvidedSession(t *testing.T) {
	slots, locks, uc, _ := testEnv()

	sessionID := uuid.New()
	resp, err := uc.Execute(context.Background(), &Request{
		SlotID:           slots.slot.ID,
		SessionID:        &sessionID,
		ReservedCapacity: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, sessionID, resp.SessionID)
	assert.Equal(t, sessionID, locks.created.SessionID)
}

func TestExecute_ConcurrentLocksCannotOversell(t *testing.T) {
	slots, locks, uc, _ := testEnv()

	// 6 свободных, чужие активные блокировки держат 4
	locks.activeSum = 4

	// Запрос на 3 не проходит: 6 - 4 < 3
	_, err := uc.Execute(context.Background(), &Request{
		SlotID:           slots.slot.ID,
		ReservedCapacity: 3,
	})
	require.ErrorIs(t, err, ErrCapacityUnavailable)
	assert.Nil(t, locks.created)

	// Запрос на 2 проходит ровно в остаток
	_, err = uc.Execute(context.Background(), &Request{
		SlotID:           slots.slot.ID,
		ReservedCapacity: 2,
	})
	require.NoError(t, err)
}

func TestExecute_PastSlotRejected(t *testing.T) {
	slots, _, uc, now := testEnv()

	slots.slot.StartTime = now.Add(-time.Minute)

	_, err := uc.Execute(context.Background(), &Request{
		SlotID:           slots.slot.ID,
		ReservedCapacity: 1,
	})
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_DisabledSlotRejected(t *testing.T) {
	slots, _, uc, _ := testEnv()

	slots.slot.IsAvailable = false

	_, err := uc.Execute(context.Background(), &Request{
		SlotID:           slots.slot.ID,
		ReservedCapacity: 1,
	})
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_MissingSlot(t *testing.T) {
	slots, _, uc, _ := testEnv()

	slots.getErr = slotRepo.ErrSlotNotFound

	_, err := uc.Execute(context.Background(), &Request{
		SlotID:           uuid.New(),
		ReservedCapacity: 1,
	})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_ValidationLimits(t *testing.T) {
	slots, _, uc, _ := testEnv()

	t.Run("zero capacity", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			SlotID:           slots.slot.ID,
			ReservedCapacity: 0,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("above configured maximum", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			SlotID:           slots.slot.ID,
			ReservedCapacity: 51,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing slot id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			ReservedCapacity: 1,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}
