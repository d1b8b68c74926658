package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByServiceAndDate(ctx context.Context, tenantID, serviceID uuid.UUID, dayStart, dayEnd time.Time) ([]*domain.Slot, error)
}

// LockRepository интерфейс репозитория блокировок
type LockRepository interface {
	SumActiveBySlots(ctx context.Context, slotIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error)
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
