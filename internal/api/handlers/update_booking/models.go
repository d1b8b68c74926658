package update_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	rescheduleBooking "github.com/bookati/Bookati-BookingService/internal/usecase/reschedule_booking"
)

// UpdateBookingRequest HTTP request model
// nil-поля не изменяются
type UpdateBookingRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	NewSlotID     *string `json:"newSlotId,omitempty"`
}

// BookingResponse HTTP response model
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

	PackageCoveredQuantity int `json:"packageCoveredQuantity"`
	PaidQuantity           int `json:"paidQuantity"`

	Notes *string `json:"notes,omitempty"`

	SlotChanged bool `json:"slotChanged"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID, tenantID uuid.UUID) (*rescheduleBooking.Request, error) {
	req := &rescheduleBooking.Request{
		BookingID:     bookingID,
		TenantID:      tenantID,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}

	if r.NewSlotID != nil {
		slotID, err := uuid.Parse(*r.NewSlotID)
		if err != nil {
			return nil, fmt.Errorf("invalid newSlotId: %w", err)
		}
		req.NewSlotID = &slotID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                     resp.ID,
		TenantID:               resp.TenantID,
		ServiceID:              resp.ServiceID,
		SlotID:                 resp.SlotID,
		CustomerID:             resp.CustomerID,
		CustomerName:           resp.CustomerName,
		CustomerPhone:          resp.CustomerPhone,
		CustomerEmail:          resp.CustomerEmail,
		VisitorCount:           resp.VisitorCount,
		AdultCount:             resp.AdultCount,
		ChildCount:             resp.ChildCount,
		TotalPrice:             resp.TotalPrice,
		Status:                 resp.Status,
		PaymentStatus:          resp.PaymentStatus,
		PackageCoveredQuantity: resp.PackageCoveredQuantity,
		PaidQuantity:           resp.PaidQuantity,
		Notes:                  resp.Notes,
		SlotChanged:            resp.SlotChanged,
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              resp.UpdatedAt.Format(time.RFC3339),
	}
}
