package subscribe_package

import (
	"context"

	"github.com/bookati/Bookati-BookingService/internal/service/packages/models"
)

type PackagesService interface {
	Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
