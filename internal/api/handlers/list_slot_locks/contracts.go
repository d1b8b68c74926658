package list_slot_locks

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/service/locks/models"
)

type LocksService interface {
	ListBySlots(ctx context.Context, slotIDs []uuid.UUID) (*models.SlotLocksResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
