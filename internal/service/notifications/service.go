package notifications

import (
	"context"
	"fmt"

	"github.com/bookati/Bookati-BookingService/internal/infra/queue"
	"github.com/bookati/Bookati-BookingService/internal/integrations/messaging"
)

// Шаблоны шлюза уведомлений
const (
	templateTicket           = "booking_ticket"
	templateInvoice          = "booking_invoice"
	templateCancellation     = "booking_cancelled"
	templatePackageExhausted = "package_exhausted"
)

// Service обрабатывает события очереди и отправляет уведомления
// через внешний шлюз. Вызывается только после коммита транзакции -
// сбой доставки логируется и никогда не трогает данные бронирования.
type Service struct {
	client MessagingClient
	logger Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(client MessagingClient, logger Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// HandleBookingCreated отправляет билет по email и WhatsApp.
// Если часть мест оплачивается деньгами, вместе с билетом уходит счет.
func (s *Service) HandleBookingCreated(ctx context.Context, event *queue.BookingCreatedEvent) error {
	payload := map[string]interface{}{
		"booking_id":       event.BookingID.String(),
		"visitor_count":    event.VisitorCount,
		"covered_quantity": event.PackageCoveredQuantity,
		"paid_quantity":    event.PaidQuantity,
		"total_price":      event.TotalPrice,
		"customer_name":    event.CustomerName,
	}

	template := templateTicket
	if event.PaidQuantity > 0 {
		template = templateInvoice
	}

	var firstErr error

	if event.CustomerEmail != nil && *event.CustomerEmail != "" {
		err := s.client.Send(ctx, &messaging.SendRequest{
			Channel:   messaging.ChannelEmail,
			Recipient: *event.CustomerEmail,
			Template:  template,
			Payload:   payload,
		})
		if err != nil {
			s.logger.Error("HandleBookingCreated: email send failed for booking %s: %v", event.BookingID, err)
			firstErr = err
		}
	}

	err := s.client.Send(ctx, &messaging.SendRequest{
		Channel:   messaging.ChannelWhatsApp,
		Recipient: event.CustomerPhone,
		Template:  template,
		Payload:   payload,
	})
	if err != nil {
		s.logger.Error("HandleBookingCreated: whatsapp send failed for booking %s: %v", event.BookingID, err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return fmt.Errorf("notifications: booking %s: %w", event.BookingID, firstErr)
	}

	s.logger.Info("HandleBookingCreated: notifications sent for booking %s", event.BookingID)
	return nil
}

// HandleBookingCancelled уведомляет клиента об отмене
func (s *Service) HandleBookingCancelled(ctx context.Context, event *queue.BookingCancelledEvent) error {
	err := s.client.Send(ctx, &messaging.SendRequest{
		Channel:   messaging.ChannelWhatsApp,
		Recipient: event.CustomerPhone,
		Template:  templateCancellation,
		Payload: map[string]interface{}{
			"booking_id":    event.BookingID.String(),
			"customer_name": event.CustomerName,
			"reason":        event.Reason,
			"cancelled_at":  event.CancelledAt,
		},
	})
	if err != nil {
		s.logger.Error("HandleBookingCancelled: send failed for booking %s: %v", event.BookingID, err)
		return fmt.Errorf("notifications: booking %s: %w", event.BookingID, err)
	}
	return nil
}

// HandlePackageExhausted уведомляет тенанта об исчерпании лимита
// пары (подписка, услуга). Само исчерпание зафиксировано идемпотентно
// в транзакции бронирования, так что дубликат события не породит
// второе уведомление у шлюза с дедупликацией по паре.
func (s *Service) HandlePackageExhausted(ctx context.Context, event *queue.PackageExhaustedEvent) error {
	err := s.client.Send(ctx, &messaging.SendRequest{
		Channel:   messaging.ChannelEmail,
		Recipient: fmt.Sprintf("tenant:%s", event.TenantID),
		Template:  templatePackageExhausted,
		Payload: map[string]interface{}{
			"subscription_id": event.SubscriptionID.String(),
			"service_id":      event.ServiceID.String(),
			"customer_id":     event.CustomerID.String(),
		},
	})
	if err != nil {
		s.logger.Error("HandlePackageExhausted: send failed for subscription %s: %v", event.SubscriptionID, err)
		return fmt.Errorf("notifications: subscription %s: %w", event.SubscriptionID, err)
	}
	return nil
}
