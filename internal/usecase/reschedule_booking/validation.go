package reschedule_booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if req.TenantID == uuid.Nil {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if req.Status != nil && !domain.IsValidBookingStatus(domain.BookingStatus(*req.Status)) {
		return fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, *req.Status)
	}
	if req.PaymentStatus != nil && !domain.IsValidPaymentStatus(domain.PaymentStatus(*req.PaymentStatus)) {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, *req.PaymentStatus)
	}

	if req.CustomerName != nil {
		if *req.CustomerName == "" {
			return fmt.Errorf("%w: customerName must not be empty", ErrInvalidInput)
		}
		if len(*req.CustomerName) > domain.MaxCustomerNameLength {
			return fmt.Errorf("%w: customerName exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
		}
	}
	if req.CustomerPhone != nil {
		if *req.CustomerPhone == "" {
			return fmt.Errorf("%w: customerPhone must not be empty", ErrInvalidInput)
		}
		if len(*req.CustomerPhone) > domain.MaxCustomerPhoneLength {
			return fmt.Errorf("%w: customerPhone exceeds %d characters", ErrInvalidInput, domain.MaxCustomerPhoneLength)
		}
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.NewSlotID != nil && *req.NewSlotID == uuid.Nil {
		return fmt.Errorf("%w: newSlotId must be a valid UUID", ErrInvalidInput)
	}

	return nil
}
