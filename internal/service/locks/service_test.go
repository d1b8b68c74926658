package locks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	lockRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/lock"
)

type lockRepoFake struct {
	lock      *domain.BookingLock
	getErr    error
	deleteErr error
	infos     []*domain.SlotLockInfo

	deletedID      uuid.UUID
	deletedSession uuid.UUID
}

func (f *lockRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingLock, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.lock, nil
}

func (f *lockRepoFake) DeleteByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) error {
	f.deletedID = id
	f.deletedSession = sessionID
	return f.deleteErr
}

func (f *lockRepoFake) ListActiveBySlots(ctx context.Context, slotIDs []uuid.UUID, now time.Time) ([]*domain.SlotLockInfo, error) {
	return f.infos, nil
}

type loggerFake struct{}

func (loggerFake) Info(format string, v ...interface{})  {}
func (loggerFake) Warn(format string, v ...interface{})  {}
func (loggerFake) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newService(repo *lockRepoFake, now time.Time) *Service {
	svc := NewService(repo, loggerFake{})
	svc.timeProvider = fixedTime{now}
	return svc
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	sessionID := uuid.New()

	newLock := func(expiresAt time.Time) *domain.BookingLock {
		return &domain.BookingLock{
			ID:               uuid.New(),
			SlotID:           uuid.New(),
			SessionID:        sessionID,
			ReservedCapacity: 2,
			LockExpiresAt:    expiresAt,
		}
	}

	t.Run("active lock", func(t *testing.T) {
		repo := &lockRepoFake{lock: newLock(now.Add(90 * time.Second))}
		svc := newService(repo, now)

		resp, err := svc.Validate(context.Background(), repo.lock.ID, sessionID)
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, 90, resp.SecondsRemaining)
	})

	t.Run("expired lock", func(t *testing.T) {
		repo := &lockRepoFake{lock: newLock(now.Add(-time.Second))}
		svc := newService(repo, now)

		resp, err := svc.Validate(context.Background(), repo.lock.ID, sessionID)
		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Equal(t, 0, resp.SecondsRemaining)
	})

	t.Run("foreign session", func(t *testing.T) {
		repo := &lockRepoFake{lock: newLock(now.Add(time.Minute))}
		svc := newService(repo, now)

		resp, err := svc.Validate(context.Background(), repo.lock.ID, uuid.New())
		require.NoError(t, err)
		assert.False(t, resp.Valid)
	})

	t.Run("missing lock is invalid, not an error", func(t *testing.T) {
		repo := &lockRepoFake{getErr: lockRepo.ErrLockNotFound}
		svc := newService(repo, now)

		resp, err := svc.Validate(context.Background(), uuid.New(), sessionID)
		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Equal(t, 0, resp.SecondsRemaining)
	})

	t.Run("nil ids rejected", func(t *testing.T) {
		svc := newService(&lockRepoFake{}, now)

		_, err := svc.Validate(context.Background(), uuid.Nil, sessionID)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRelease(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("owner releases", func(t *testing.T) {
		repo := &lockRepoFake{}
		svc := newService(repo, now)

		lockID := uuid.New()
		sessionID := uuid.New()

		require.NoError(t, svc.Release(context.Background(), lockID, sessionID))
		assert.Equal(t, lockID, repo.deletedID)
		assert.Equal(t, sessionID, repo.deletedSession)
	})

	t.Run("foreign session gets not found", func(t *testing.T) {
		repo := &lockRepoFake{deleteErr: lockRepo.ErrLockNotFound}
		svc := newService(repo, now)

		err := svc.Release(context.Background(), uuid.New(), uuid.New())
		require.ErrorIs(t, err, ErrLockNotFound)
	})
}

func TestListBySlots(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	slotID := uuid.New()

	repo := &lockRepoFake{infos: []*domain.SlotLockInfo{
		{SlotID: slotID, LockExpiresAt: now.Add(time.Minute)},
		{SlotID: slotID, LockExpiresAt: now.Add(2 * time.Minute)},
	}}
	svc := newService(repo, now)

	resp, err := svc.ListBySlots(context.Background(), []uuid.UUID{slotID})
	require.NoError(t, err)
	require.Len(t, resp.Locks, 2)
	assert.Equal(t, slotID, resp.Locks[0].SlotID)

	_, err = svc.ListBySlots(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}
