package packages

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// SubscriptionRepository интерфейс репозитория подписок на пакеты
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, s *domain.PackageSubscription) (*domain.PackageSubscription, error)
	CreateUsageRows(ctx context.Context, subscriptionID uuid.UUID, services []domain.PackageServiceQuantity) error
	GetPackageServices(ctx context.Context, packageID uuid.UUID) ([]domain.PackageServiceQuantity, error)
	GetSubscription(ctx context.Context, id uuid.UUID) (*domain.PackageSubscription, error)
	SumRemainingCapacity(ctx context.Context, customerID, serviceID uuid.UUID) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
