package queue

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys событий диспетчера уведомлений
const (
	RoutingKeyBookingCreated   = "booking.created"
	RoutingKeyBookingCancelled = "booking.cancelled"
	RoutingKeyPackageExhausted = "package.exhausted"
)

// BookingCreatedEvent публикуется после коммита транзакции создания
// бронирования. Потребитель отправляет билет/счет по email и WhatsApp.
type BookingCreatedEvent struct {
	BookingID              uuid.UUID `json:"booking_id"`
	TenantID               uuid.UUID `json:"tenant_id"`
	ServiceID              uuid.UUID `json:"service_id"`
	SlotID                 uuid.UUID `json:"slot_id"`
	CustomerName           string    `json:"customer_name"`
	CustomerPhone          string    `json:"customer_phone"`
	CustomerEmail          *string   `json:"customer_email,omitempty"`
	VisitorCount           int       `json:"visitor_count"`
	TotalPrice             float64   `json:"total_price"`
	PackageCoveredQuantity int       `json:"package_covered_quantity"`
	PaidQuantity           int       `json:"paid_quantity"`
	CreatedAt              time.Time `json:"created_at"`
}

// BookingCancelledEvent публикуется после отмены бронирования
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Reason        string    `json:"reason"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

// PackageExhaustedEvent публикуется, когда остаток пары
// (подписка, услуга) перешел из >0 в 0
type PackageExhaustedEvent struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
}
