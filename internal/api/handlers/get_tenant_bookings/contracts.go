package get_tenant_bookings

import (
	"context"

	"github.com/bookati/Bookati-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
