package release_lock

import (
	"context"

	"github.com/google/uuid"
)

type LocksService interface {
	Release(ctx context.Context, lockID, sessionID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
