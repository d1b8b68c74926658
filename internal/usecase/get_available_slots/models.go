package get_available_slots

import (
	"time"

	"github.com/google/uuid"
)

// Request запрос витрины доступных слотов
type Request struct {
	TenantID  uuid.UUID
	ServiceID uuid.UUID
	Date      time.Time
}

// Slot доступный слот с эффективной вместимостью
// EffectiveAvailable = remaining_capacity минус сумма активных блокировок:
// то, что реально можно забронировать прямо сейчас
type Slot struct {
	ID                 uuid.UUID `json:"id"`
	StartTime          time.Time `json:"startTime"`
	EndTime            time.Time `json:"endTime"`
	TotalCapacity      int       `json:"totalCapacity"`
	EffectiveAvailable int       `json:"effectiveAvailable"`
}

// Response ответ со списком слотов на дату
type Response struct {
	Date      string    `json:"date"`
	TenantID  uuid.UUID `json:"tenantId"`
	ServiceID uuid.UUID `json:"serviceId"`
	Slots     []Slot    `json:"slots"`
}
