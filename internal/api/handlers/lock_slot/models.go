package lock_slot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	acquireLock "github.com/bookati/Bookati-BookingService/internal/usecase/acquire_lock"
)

// LockSlotRequest HTTP request model
type LockSlotRequest struct {
	SlotID           string  `json:"slotId"`
	SessionID        *string `json:"sessionId,omitempty"`
	ReservedCapacity int     `json:"reservedCapacity"`
}

// LockSlotResponse HTTP response model
type LockSlotResponse struct {
	LockID           uuid.UUID `json:"lockId"`
	SessionID        uuid.UUID `json:"sessionId"`
	ExpiresAt        string    `json:"expiresAt"`
	ExpiresInSeconds int       `json:"expiresInSeconds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *LockSlotRequest) ToUseCaseRequest() (*acquireLock.Request, error) {
	slotID, err := uuid.Parse(r.SlotID)
	if err != nil {
		return nil, fmt.Errorf("invalid slotId: %w", err)
	}

	req := &acquireLock.Request{
		SlotID:           slotID,
		ReservedCapacity: r.ReservedCapacity,
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
func FromUseCaseResponse(resp *acquireLock.Response) *LockSlotResponse {
	return &LockSlotResponse{
		LockID:           resp.LockID,
		SessionID:        resp.SessionID,
		ExpiresAt:        resp.ExpiresAt.Format(time.RFC3339),
		ExpiresInSeconds: resp.ExpiresInSeconds,
	}
}
