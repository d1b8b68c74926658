package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	"github.com/bookati/Bookati-BookingService/pkg/dbmetrics"
	"github.com/bookati/Bookati-BookingService/pkg/psqlbuilder"
)

var lockColumns = []string{
	"id",
	"slot_id",
	"session_id",
	"reserved_capacity",
	"lock_expires_at",
	"created_at",
}

// Repository репозиторий для работы с блокировками слотов
// Просроченные блокировки не удаляются фоновым процессом:
// каждый метод чтения фильтрует их по lock_expires_at
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блокировку слота
func (r *Repository) Create(ctx context.Context, l *domain.BookingLock) (*domain.BookingLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_locks").
		Columns("id", "slot_id", "session_id", "reserved_capacity", "lock_expires_at").
		Values(l.ID, l.SlotID, l.SessionID, l.ReservedCapacity, l.LockExpiresAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return l, nil
}

// GetByID получает блокировку по ID (включая просроченные -
// интерпретация срока остается за вызывающим кодом)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(lockColumns...).
		From("booking_locks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var l domain.BookingLock
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&l.ID,
		&l.SlotID,
		&l.SessionID,
		&l.ReservedCapacity,
		&l.LockExpiresAt,
		&l.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lock: %v", ErrScanRow, err)
	}

	return &l, nil
}

// SumActiveBySlot возвращает сумму reserved_capacity активных блокировок
// слота. Блокировка активна, пока lock_expires_at > now (ленивое истечение).
// excludeLockID исключает собственную блокировку вызывающего - при создании
// бронирования она не должна считаться против его же вместимости.
func (r *Repository) SumActiveBySlot(ctx context.Context, slotID uuid.UUID, now time.Time, excludeLockID *uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("COALESCE(SUM(reserved_capacity), 0)").
		From("booking_locks").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Gt{"lock_expires_at": now})
	if excludeLockID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *excludeLockID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SumActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var sum int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumActiveBySlot - scan sum: %v", ErrScanRow, err)
	}

	return sum, nil
}

// SumActiveBySlots возвращает сумму reserved_capacity активных блокировок
// для каждого слота из набора. Слоты без активных блокировок в карте
// отсутствуют - вызывающий код трактует их как ноль.
func (r *Repository) SumActiveBySlots(ctx context.Context, slotIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_id", "COALESCE(SUM(reserved_capacity), 0)").
		From("booking_locks").
		Where(squirrel.Eq{"slot_id": slotIDs}).
		Where(squirrel.Gt{"lock_expires_at": now}).
		GroupBy("slot_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlots - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sums := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			slotID uuid.UUID
			sum    int
		)
		if err := rows.Scan(&slotID, &sum); err != nil {
			return nil, fmt.Errorf("%w: SumActiveBySlots - scan row: %v", ErrScanRow, err)
		}
		sums[slotID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlots - rows error: %v", ErrExecQuery, err)
	}

	return sums, nil
}

// DeleteByIDAndSession удаляет блокировку, принадлежащую сессии
// Возвращает ErrLockNotFound, если блокировки нет или она чужая -
// различие наружу не раскрывается
func (r *Repository) DeleteByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_locks").
		Where(squirrel.Eq{"id": id, "session_id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByIDAndSession - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByIDAndSession - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByIDAndSession - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrLockNotFound
	}

	return nil
}

// ListActiveBySlots возвращает активные блокировки для набора слотов
// Используется витриной занятости: session_id владельцев не раскрывается
func (r *Repository) ListActiveBySlots(ctx context.Context, slotIDs []uuid.UUID, now time.Time) ([]*domain.SlotLockInfo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_id", "lock_expires_at").
		From("booking_locks").
		Where(squirrel.Eq{"slot_id": slotIDs}).
		Where(squirrel.Gt{"lock_expires_at": now}).
		OrderBy("lock_expires_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBySlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBySlots - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	infos := make([]*domain.SlotLockInfo, 0)
	for rows.Next() {
		var info domain.SlotLockInfo
		if err := rows.Scan(&info.SlotID, &info.LockExpiresAt); err != nil {
			return nil, fmt.Errorf("%w: ListActiveBySlots - scan row: %v", ErrScanRow, err)
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveBySlots - rows error: %v", ErrExecQuery, err)
	}

	return infos, nil
}
