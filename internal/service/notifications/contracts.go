package notifications

import (
	"context"

	"github.com/bookati/Bookati-BookingService/internal/integrations/messaging"
)

// MessagingClient интерфейс клиента шлюза уведомлений
type MessagingClient interface {
	Send(ctx context.Context, req *messaging.SendRequest) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
