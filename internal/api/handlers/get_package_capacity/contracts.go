package get_package_capacity

import (
	"context"

	"github.com/bookati/Bookati-BookingService/internal/service/packages/models"
)

type PackagesService interface {
	ResolveCapacity(ctx context.Context, req *models.ResolveCapacityRequest) (*models.CapacityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
