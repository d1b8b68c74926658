package locks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// LockRepository интерфейс репозитория блокировок слотов
type LockRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingLock, error)
	DeleteByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) error
	ListActiveBySlots(ctx context.Context, slotIDs []uuid.UUID, now time.Time) ([]*domain.SlotLockInfo, error)
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
