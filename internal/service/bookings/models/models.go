package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	BookingID          uuid.UUID `json:"-"`
	TenantID           uuid.UUID `json:"-"`
	CancellationReason string    `json:"cancellationReason"`
}

// GetTenantBookingsRequest запрос на получение бронирований тенанта
type GetTenantBookingsRequest struct {
	TenantID        uuid.UUID  `json:"tenantId"`
	ServiceID       *uuid.UUID `json:"serviceId,omitempty"`
	SlotID          *uuid.UUID `json:"slotId,omitempty"`
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{
		TenantID:        r.TenantID,
		ServiceID:       r.ServiceID,
		SlotID:          r.SlotID,
		CustomerID:      r.CustomerID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		if !domain.IsValidBookingStatus(status) {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenantId"`
	ServiceID  uuid.UUID  `json:"serviceId"`
	SlotID     uuid.UUID  `json:"slotId"`
	CustomerID *uuid.UUID `json:"customerId,omitempty"`

	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`

	VisitorCount int `json:"visitorCount"`
	AdultCount   int `json:"adultCount"`
	ChildCount   int `json:"childCount"`

	TotalPrice    float64 `json:"totalPrice"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`

	PackageCoveredQuantity int        `json:"packageCoveredQuantity"`
	PaidQuantity           int        `json:"paidQuantity"`
	PackageSubscriptionID  *uuid.UUID `json:"packageSubscriptionId,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                     b.ID,
		TenantID:               b.TenantID,
		ServiceID:              b.ServiceID,
		SlotID:                 b.SlotID,
		CustomerID:             b.CustomerID,
		CustomerName:           b.CustomerName,
		CustomerPhone:          b.CustomerPhone,
		CustomerEmail:          b.CustomerEmail,
		VisitorCount:           b.VisitorCount,
		AdultCount:             b.AdultCount,
		ChildCount:             b.ChildCount,
		TotalPrice:             b.TotalPrice,
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
		PackageCoveredQuantity: b.PackageCoveredQuantity,
		PaidQuantity:           b.PaidQuantity,
		PackageSubscriptionID:  b.PackageSubscriptionID,
		Notes:                  b.Notes,
		CancellationReason:     b.CancellationReason,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}
