package lock

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestSumActiveBySlot_FiltersExpiredLocks(t *testing.T) {
	repo, mock := newMock(t)

	slotID := uuid.New()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(SUM(reserved_capacity), 0) FROM booking_locks WHERE slot_id = $1 AND lock_expires_at > $2",
	)).
		WithArgs(slotID, now).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5))

	sum, err := repo.SumActiveBySlot(context.Background(), slotID, now, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, sum)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumActiveBySlot_ExcludesOwnLock(t *testing.T) {
	repo, mock := newMock(t)

	slotID := uuid.New()
	ownLockID := uuid.New()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(SUM(reserved_capacity), 0) FROM booking_locks WHERE slot_id = $1 AND lock_expires_at > $2 AND id <> $3",
	)).
		WithArgs(slotID, now, ownLockID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))

	sum, err := repo.SumActiveBySlot(context.Background(), slotID, now, &ownLockID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDAndSession(t *testing.T) {
	lockID := uuid.New()
	sessionID := uuid.New()

	query := regexp.QuoteMeta("DELETE FROM booking_locks WHERE id = $1 AND session_id = $2")

	t.Run("owner releases lock", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(query).
			WithArgs(lockID, sessionID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteByIDAndSession(context.Background(), lockID, sessionID)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign session gets not found", func(t *testing.T) {
		repo, mock := newMock(t)

		// Чужая сессия и отсутствующая блокировка снаружи неразличимы
		mock.ExpectExec(query).
			WithArgs(lockID, sessionID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteByIDAndSession(context.Background(), lockID, sessionID)
		require.ErrorIs(t, err, ErrLockNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	lockID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, slot_id, session_id, reserved_capacity, lock_expires_at, created_at FROM booking_locks WHERE id = $1",
	)).
		WithArgs(lockID).
		WillReturnRows(sqlmock.NewRows(lockColumns))

	_, err := repo.GetByID(context.Background(), lockID)
	require.ErrorIs(t, err, ErrLockNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
