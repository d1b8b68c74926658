package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentUnpaid          PaymentStatus = "unpaid"
	PaymentAwaitingPayment PaymentStatus = "awaiting_payment"
	PaymentPaid            PaymentStatus = "paid"
	PaymentPaidManual      PaymentStatus = "paid_manual"
	PaymentRefunded        PaymentStatus = "refunded"
)

// Booking represents a confirmed reservation of slot capacity
type Booking struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ServiceID  uuid.UUID
	SlotID     uuid.UUID
	CustomerID *uuid.UUID // nil для гостевых бронирований

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	VisitorCount int
	AdultCount   int
	ChildCount   int

	TotalPrice float64

	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Сколько посетителей оплачено пакетом, а сколько деньгами
	// Инвариант: VisitorCount = PackageCoveredQuantity + PaidQuantity
	PackageCoveredQuantity int
	PaidQuantity           int
	PackageSubscriptionID  *uuid.UUID // первая подписка, из которой шло списание

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still counts against slot capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be moved to another slot
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// TenantBookingsFilter фильтр для получения бронирований тенанта
type TenantBookingsFilter struct {
	TenantID        uuid.UUID      // Обязательный параметр
	ServiceID       *uuid.UUID     // Фильтр по услуге (опционально)
	SlotID          *uuid.UUID     // Фильтр по слоту (опционально)
	CustomerID      *uuid.UUID     // Фильтр по клиенту (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
