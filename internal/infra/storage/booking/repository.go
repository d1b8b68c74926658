package booking

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

var bookingColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"slot_id",
	"customer_id",
	"customer_name",
	"customer_phone",
	"customer_email",
	"visitor_count",
	"adult_count",
	"child_count",
	"total_price",
	"status",
	"payment_status",
	"package_covered_quantity",
	"paid_quantity",
	"package_subscription_id",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается только из транзакции создания бронирования: проверка
// вместимости слота и списание лимитов пакета должны быть в том же
// контексте транзакции (через context.Value)
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"tenant_id",
			"service_id",
			"slot_id",
			"customer_id",
			"customer_name",
			"customer_phone",
			"customer_email",
			"visitor_count",
			"adult_count",
			"child_count",
			"total_price",
			"status",
			"payment_status",
			"package_covered_quantity",
			"paid_quantity",
			"package_subscription_id",
			"notes",
		).
		Values(
			b.ID,
			b.TenantID,
			b.ServiceID,
			b.SlotID,
			b.CustomerID,
			b.CustomerName,
			b.CustomerPhone,
			b.CustomerEmail,
			b.VisitorCount,
			b.AdultCount,
			b.ChildCount,
			b.TotalPrice,
			b.Status,
			b.PaymentStatus,
			b.PackageCoveredQuantity,
			b.PaidQuantity,
			b.PackageSubscriptionID,
			b.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate получает бронирование по ID с блокировкой строки
// Используется при переносе и отмене, чтобы конкурентные изменения
// одного бронирования сериализовались
func (r *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.get(ctx, id, true)
}

func (r *Repository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByTenantWithFilter получает бронирования тенанта с фильтрацией
// по услуге, слоту, клиенту, периоду и статусу
func (r *Repository) GetByTenantWithFilter(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.ServiceID != nil {
		builder = builder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.SlotID != nil {
		builder = builder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if filter.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"created_at": *filter.EndDate})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		builder = builder.Where(squirrel.Eq{"status": domain.ActiveBookingStatuses})
	}

	query, args, err := builder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByTenantWithFilter - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - rows error: %v", ErrExecQuery, err)
	}

	return bookings, nil
}

// SumActiveVisitorsBySlot возвращает суммарное число посетителей
// по неотмененным бронированиям слота
func (r *Repository) SumActiveVisitorsBySlot(ctx context.Context, slotID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(visitor_count), 0)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SumActiveVisitorsBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var sum int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumActiveVisitorsBySlot - scan sum: %v", ErrScanRow, err)
	}

	return sum, nil
}

// BookingUpdate изменяемые персоналом поля бронирования
// nil-поля не затрагиваются
type BookingUpdate struct {
	Status        *domain.BookingStatus
	PaymentStatus *domain.PaymentStatus
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
	SlotID        *uuid.UUID
}

// Update обновляет поля бронирования
func (r *Repository) Update(ctx context.Context, id uuid.UUID, upd BookingUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if upd.Status != nil {
		builder = builder.Set("status", *upd.Status)
	}
	if upd.PaymentStatus != nil {
		builder = builder.Set("payment_status", *upd.PaymentStatus)
	}
	if upd.CustomerName != nil {
		builder = builder.Set("customer_name", *upd.CustomerName)
	}
	if upd.CustomerPhone != nil {
		builder = builder.Set("customer_phone", *upd.CustomerPhone)
	}
	if upd.CustomerEmail != nil {
		builder = builder.Set("customer_email", *upd.CustomerEmail)
	}
	if upd.Notes != nil {
		builder = builder.Set("notes", *upd.Notes)
	}
	if upd.SlotID != nil {
		builder = builder.Set("slot_id", *upd.SlotID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel переводит бронирование в статус cancelled (мягкая отмена,
// строки бронирований никогда не удаляются)
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrCannotCancel
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.TenantID,
		&b.ServiceID,
		&b.SlotID,
		&b.CustomerID,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CustomerEmail,
		&b.VisitorCount,
		&b.AdultCount,
		&b.ChildCount,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentStatus,
		&b.PackageCoveredQuantity,
		&b.PaidQuantity,
		&b.PackageSubscriptionID,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
