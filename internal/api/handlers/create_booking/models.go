package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	createBooking "github.com/bookati/Bookati-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID string `json:"serviceId"`
	SlotID    string `json:"slotId"`

	CustomerID    *string `json:"customerId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`

	VisitorCount int `json:"visitorCount"`
	AdultCount   int `json:"adultCount"`
	ChildCount   int `json:"childCount"`

	TotalPrice float64 `json:"totalPrice"`
	Notes      *string `json:"notes,omitempty"`

	LockID    *string `json:"lockId,omitempty"`
	SessionID *string `json:"sessionId,omitempty"`
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

	PackageCoveredQuantity int        `json:"packageCoveredQuantity"`
	PaidQuantity           int        `json:"paidQuantity"`
	PackageSubscriptionID  *uuid.UUID `json:"packageSubscriptionId,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// TenantID берется из клеймов сотрудника, не из тела запроса
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID uuid.UUID) (*createBooking.Request, error) {
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("invalid serviceId: %w", err)
	}
	slotID, err := uuid.Parse(r.SlotID)
	if err != nil {
		return nil, fmt.Errorf("invalid slotId: %w", err)
	}

	req := &createBooking.Request{
		TenantID:      tenantID,
		ServiceID:     serviceID,
		SlotID:        slotID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		VisitorCount:  r.VisitorCount,
		AdultCount:    r.AdultCount,
		ChildCount:    r.ChildCount,
		TotalPrice:    r.TotalPrice,
		Notes:         r.Notes,
	}

	if r.CustomerID != nil {
		customerID, err := uuid.Parse(*r.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customerId: %w", err)
		}
		req.CustomerID = &customerID
	}
	if r.LockID != nil {
		lockID, err := uuid.Parse(*r.LockID)
		if err != nil {
			return nil, fmt.Errorf("invalid lockId: %w", err)
		}
		req.LockID = &lockID
	}
	if r.SessionID != nil {
		sessionID, err := uuid.Parse(*r.SessionID)
		if err != nil {
			return nil, fmt.Errorf("invalid sessionId: %w", err)
		}
		req.SessionID = &sessionID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
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
		PackageSubscriptionID:  resp.PackageSubscriptionID,
		Notes:                  resp.Notes,
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              resp.UpdatedAt.Format(time.RFC3339),
	}
}
