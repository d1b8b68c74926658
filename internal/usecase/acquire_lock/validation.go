package acquire_lock

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxReservedCapacity int) error {
	if req.SlotID == uuid.Nil {
		return fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	if req.ReservedCapacity < domain.MinReservedCapacity {
		return fmt.Errorf("%w: reservedCapacity must be at least %d", ErrInvalidInput, domain.MinReservedCapacity)
	}

	if maxReservedCapacity > 0 && req.ReservedCapacity > maxReservedCapacity {
		return fmt.Errorf("%w: reservedCapacity must not exceed %d", ErrInvalidInput, maxReservedCapacity)
	}

	return nil
}
