package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	"github.com/bookati/Bookati-BookingService/pkg/dbmetrics"
	"github.com/bookati/Bookati-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий подписок на пакеты и леджера их лимитов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateSubscription создает подписку клиента на пакет
func (r *Repository) CreateSubscription(ctx context.Context, s *domain.PackageSubscription) (*domain.PackageSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("package_subscriptions").
		Columns("id", "tenant_id", "customer_id", "package_id", "status", "is_active", "subscribed_at").
		Values(s.ID, s.TenantID, s.CustomerID, s.PackageID, s.Status, s.IsActive, s.SubscribedAt).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSubscription - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSubscription - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// CreateUsageRows инициализирует леджер подписки из определения пакета
// used_quantity = 0, remaining_quantity = original_quantity
func (r *Repository) CreateUsageRows(ctx context.Context, subscriptionID uuid.UUID, services []domain.PackageServiceQuantity) error {
	if len(services) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("package_subscription_usage").
		Columns("subscription_id", "service_id", "original_quantity", "used_quantity", "remaining_quantity")
	for _, svc := range services {
		builder = builder.Values(subscriptionID, svc.ServiceID, svc.Quantity, 0, svc.Quantity)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateUsageRows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateUsageRows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetPackageServices возвращает пер-сервисные лимиты из определения пакета
func (r *Repository) GetPackageServices(ctx context.Context, packageID uuid.UUID) ([]domain.PackageServiceQuantity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("service_id", "quantity").
		From("package_services").
		Where(squirrel.Eq{"package_id": packageID}).
		OrderBy("service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackageServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackageServices - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.PackageServiceQuantity, 0)
	for rows.Next() {
		var svc domain.PackageServiceQuantity
		if err := rows.Scan(&svc.ServiceID, &svc.Quantity); err != nil {
			return nil, fmt.Errorf("%w: GetPackageServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPackageServices - rows error: %v", ErrExecQuery, err)
	}

	if len(services) == 0 {
		return nil, ErrPackageNotFound
	}

	return services, nil
}

// SumRemainingCapacity возвращает суммарный остаток предоплаченных
// посещений клиента по услуге. Значение всегда считается напрямую
// из строк леджера и нигде не кэшируется.
// Ноль активных подписок - валидный результат 0, не ошибка.
func (r *Repository) SumRemainingCapacity(ctx context.Context, customerID, serviceID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(u.remaining_quantity), 0)").
		From("package_subscription_usage u").
		Join("package_subscriptions s ON s.id = u.subscription_id").
		Where(squirrel.Eq{
			"s.customer_id": customerID,
			"s.status":      domain.SubscriptionActive,
			"s.is_active":   true,
			"u.service_id":  serviceID,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SumRemainingCapacity - build select query: %v", ErrBuildQuery, err)
	}

	var sum int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumRemainingCapacity - scan sum: %v", ErrScanRow, err)
	}

	return sum, nil
}

// ListUsageForUpdate возвращает строки леджера с остатком > 0 по активным
// подпискам клиента на услугу, с блокировкой строк (FOR UPDATE OF u).
// Порядок детерминирован: сначала самая старая подписка
// (subscribed_at ASC, subscription_id ASC как стабильный tie-break) -
// он определяет очередность списания.
func (r *Repository) ListUsageForUpdate(ctx context.Context, customerID, serviceID uuid.UUID) ([]*domain.PackageSubscriptionUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"u.subscription_id",
		"u.service_id",
		"u.original_quantity",
		"u.used_quantity",
		"u.remaining_quantity",
		"s.subscribed_at",
	).
		From("package_subscription_usage u").
		Join("package_subscriptions s ON s.id = u.subscription_id").
		Where(squirrel.Eq{
			"s.customer_id": customerID,
			"s.status":      domain.SubscriptionActive,
			"s.is_active":   true,
			"u.service_id":  serviceID,
		}).
		Where(squirrel.Gt{"u.remaining_quantity": 0}).
		OrderBy("s.subscribed_at ASC", "u.subscription_id ASC").
		Suffix("FOR UPDATE OF u").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUsageForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUsageForUpdate - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	usages := make([]*domain.PackageSubscriptionUsage, 0)
	for rows.Next() {
		var u domain.PackageSubscriptionUsage
		err := rows.Scan(
			&u.SubscriptionID,
			&u.ServiceID,
			&u.OriginalQuantity,
			&u.UsedQuantity,
			&u.RemainingQuantity,
			&u.SubscribedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListUsageForUpdate - scan row: %v", ErrScanRow, err)
		}
		usages = append(usages, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUsageForUpdate - rows error: %v", ErrExecQuery, err)
	}

	return usages, nil
}

// ConsumeUsage списывает qty посещений со строки леджера
// Охранное условие remaining_quantity >= qty не дает остатку уйти
// в минус: при нарушении строки не затрагиваются и возвращается
// ErrInsufficientUsage (вся транзакция бронирования откатывается)
func (r *Repository) ConsumeUsage(ctx context.Context, subscriptionID, serviceID uuid.UUID, qty int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("package_subscription_usage").
		Set("used_quantity", squirrel.Expr("used_quantity + ?", qty)).
		Set("remaining_quantity", squirrel.Expr("remaining_quantity - ?", qty)).
		Where(squirrel.Eq{"subscription_id": subscriptionID, "service_id": serviceID}).
		Where(squirrel.Expr("remaining_quantity >= ?", qty)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ConsumeUsage - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ConsumeUsage - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ConsumeUsage - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrInsufficientUsage
	}

	return nil
}

// InsertExhaustionNotification фиксирует исчерпание пары
// (подписка, услуга). Идемпотентность обеспечивается уникальным
// ограничением в БД и ON CONFLICT DO NOTHING, а не предварительной
// проверкой - так повторное исчерпание не создает вторую запись
// даже при гонке
func (r *Repository) InsertExhaustionNotification(ctx context.Context, subscriptionID, serviceID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("package_exhaustion_notifications").
		Columns("subscription_id", "service_id").
		Values(subscriptionID, serviceID).
		Suffix("ON CONFLICT (subscription_id, service_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertExhaustionNotification - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertExhaustionNotification - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetSubscription получает подписку по ID
func (r *Repository) GetSubscription(ctx context.Context, id uuid.UUID) (*domain.PackageSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "tenant_id", "customer_id", "package_id",
		"status", "is_active", "subscribed_at", "created_at", "updated_at",
	).
		From("package_subscriptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubscription - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.PackageSubscription
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TenantID,
		&s.CustomerID,
		&s.PackageID,
		&s.Status,
		&s.IsActive,
		&s.SubscribedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubscription - scan subscription: %v", ErrScanRow, err)
	}

	return &s, nil
}
