package slot

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

func TestDecrementCapacity(t *testing.T) {
	slotID := uuid.New()

	query := regexp.QuoteMeta(
		"UPDATE slots SET remaining_capacity = remaining_capacity - $1, updated_at = NOW() WHERE id = $2 AND remaining_capacity >= $3",
	)

	t.Run("enough capacity", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(query).
			WithArgs(3, slotID, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DecrementCapacity(context.Background(), slotID, 3)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard rejects oversell", func(t *testing.T) {
		repo, mock := newMock(t)

		// Охранное условие не прошло - ни одна строка не затронута
		mock.ExpectExec(query).
			WithArgs(5, slotID, 5).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DecrementCapacity(context.Background(), slotID, 5)
		require.ErrorIs(t, err, ErrCapacityExceeded)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIncrementCapacity_GuardCapsAtTotal(t *testing.T) {
	repo, mock := newMock(t)

	slotID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE slots SET remaining_capacity = remaining_capacity + $1, updated_at = NOW() WHERE id = $2 AND remaining_capacity + $3 <= total_capacity",
	)).
		WithArgs(2, slotID, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementCapacity(context.Background(), slotID, 2)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock := newMock(t)

	slotID := uuid.New()
	tenantID := uuid.New()
	serviceID := uuid.New()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, tenant_id, service_id, start_time, end_time, total_capacity, remaining_capacity, is_available, created_at, updated_at FROM slots WHERE id = $1 FOR UPDATE",
	)).
		WithArgs(slotID).
		WillReturnRows(sqlmock.NewRows(slotColumns).AddRow(
			slotID, tenantID, serviceID,
			now.Add(time.Hour), now.Add(2*time.Hour),
			10, 7, true, now, now,
		))

	s, err := repo.GetForUpdate(context.Background(), slotID)
	require.NoError(t, err)

	assert.Equal(t, slotID, s.ID)
	assert.Equal(t, 10, s.TotalCapacity)
	assert.Equal(t, 7, s.RemainingCapacity)
	assert.True(t, s.IsAvailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	slotID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, tenant_id, service_id, start_time, end_time, total_capacity, remaining_capacity, is_available, created_at, updated_at FROM slots WHERE id = $1",
	)).
		WithArgs(slotID).
		WillReturnRows(sqlmock.NewRows(slotColumns))

	_, err := repo.GetByID(context.Background(), slotID)
	require.ErrorIs(t, err, ErrSlotNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
