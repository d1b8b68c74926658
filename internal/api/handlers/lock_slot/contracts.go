package lock_slot

import (
	"context"

	acquireLock "github.com/bookati/Bookati-BookingService/internal/usecase/acquire_lock"
)

type AcquireLockUseCase interface {
	Execute(ctx context.Context, req *acquireLock.Request) (*acquireLock.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
