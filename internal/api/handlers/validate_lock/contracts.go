package validate_lock

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/service/locks/models"
)

type LocksService interface {
	Validate(ctx context.Context, lockID, sessionID uuid.UUID) (*models.ValidateLockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
