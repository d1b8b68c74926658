package create_booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Любая ошибка здесь - InvalidInput (HTTP 400), до каких-либо
// обращений к хранилищу
func validateRequest(req *Request) error {
	if req.TenantID == uuid.Nil {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.SlotID == uuid.Nil {
		return fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}
	if req.CustomerPhone == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}
	if len(req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customerPhone exceeds %d characters", ErrInvalidInput, domain.MaxCustomerPhoneLength)
	}

	if req.AdultCount < 0 || req.ChildCount < 0 {
		return fmt.Errorf("%w: adultCount and childCount must be non-negative", ErrInvalidInput)
	}
	if req.VisitorCount < 1 {
		return fmt.Errorf("%w: visitorCount must be at least 1", ErrInvalidInput)
	}
	if req.VisitorCount != req.AdultCount+req.ChildCount {
		return fmt.Errorf("%w: visitorCount must equal adultCount + childCount", ErrInvalidInput)
	}

	if req.TotalPrice < 0 {
		return fmt.Errorf("%w: totalPrice must be non-negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// Блокировка без сессии бессмысленна - проверить принадлежность нечем
	if req.LockID != nil && req.SessionID == nil {
		return fmt.Errorf("%w: sessionId is required when lockId is provided", ErrInvalidInput)
	}

	return nil
}
