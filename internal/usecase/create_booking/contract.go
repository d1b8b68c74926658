package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	DecrementCapacity(ctx context.Context, id uuid.UUID, by int) error
}

// LockRepository интерфейс репозитория блокировок
type LockRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingLock, error)
	SumActiveBySlot(ctx context.Context, slotID uuid.UUID, now time.Time, excludeLockID *uuid.UUID) (int, error)
	DeleteByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// SubscriptionRepository интерфейс репозитория подписок и леджера лимитов
type SubscriptionRepository interface {
	ListUsageForUpdate(ctx context.Context, customerID, serviceID uuid.UUID) ([]*domain.PackageSubscriptionUsage, error)
	ConsumeUsage(ctx context.Context, subscriptionID, serviceID uuid.UUID, qty int) error
	InsertExhaustionNotification(ctx context.Context, subscriptionID, serviceID uuid.UUID) error
}

// EventPublisher интерфейс диспетчера пост-коммитных уведомлений
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
