package slot

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

var slotColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"start_time",
	"end_time",
	"total_capacity",
	"remaining_capacity",
	"is_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate получает слот по ID с блокировкой строки (FOR UPDATE)
// Обязателен к использованию во всех операциях, изменяющих вместимость:
// две конкурентные транзакции сериализуются на этой строке
func (r *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	return r.get(ctx, id, true)
}

func (r *Repository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Slot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TenantID,
		&s.ServiceID,
		&s.StartTime,
		&s.EndTime,
		&s.TotalCapacity,
		&s.RemainingCapacity,
		&s.IsAvailable,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get - scan slot: %v", ErrScanRow, err)
	}

	return &s, nil
}

// ListByServiceAndDate возвращает доступные слоты услуги тенанта,
// начинающиеся в интервале [dayStart, dayEnd), по возрастанию start_time
func (r *Repository) ListByServiceAndDate(ctx context.Context, tenantID, serviceID uuid.UUID, dayStart, dayEnd time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"tenant_id": tenantID, "service_id": serviceID, "is_available": true}).
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.ServiceID,
			&s.StartTime,
			&s.EndTime,
			&s.TotalCapacity,
			&s.RemainingCapacity,
			&s.IsAvailable,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByServiceAndDate - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - rows error: %v", ErrExecQuery, err)
	}

	return slots, nil
}

// DecrementCapacity уменьшает remaining_capacity слота на by
// Запрос содержит охранное условие remaining_capacity >= by:
// при его нарушении строки не затрагиваются и возвращается ErrCapacityExceeded
func (r *Repository) DecrementCapacity(ctx context.Context, id uuid.UUID, by int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("remaining_capacity", squirrel.Expr("remaining_capacity - ?", by)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("remaining_capacity >= ?", by)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DecrementCapacity - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementCapacity - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementCapacity - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrCapacityExceeded
	}

	return nil
}

// IncrementCapacity возвращает by мест слоту (отмена, перенос)
// Охранное условие не дает remaining_capacity превысить total_capacity
func (r *Repository) IncrementCapacity(ctx context.Context, id uuid.UUID, by int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("remaining_capacity", squirrel.Expr("remaining_capacity + ?", by)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("remaining_capacity + ? <= total_capacity", by)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementCapacity - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementCapacity - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementCapacity - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrCapacityExceeded
	}

	return nil
}
