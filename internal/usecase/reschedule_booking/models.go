package reschedule_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на обновление бронирования
// nil-поля не изменяются
type Request struct {
	BookingID uuid.UUID
	TenantID  uuid.UUID // Тенант из клеймов сотрудника

	Status        *string
	PaymentStatus *string
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string

	// Перенос на другой слот. Старый слот возвращает вместимость,
	// новый - потребляет, в одной транзакции.
	NewSlotID *uuid.UUID
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ServiceID  uuid.UUID
	SlotID     uuid.UUID
	CustomerID *uuid.UUID

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	VisitorCount int
	AdultCount   int
	ChildCount   int

	TotalPrice    float64
	Status        string
	PaymentStatus string

	PackageCoveredQuantity int
	PaidQuantity           int

	Notes *string

	SlotChanged bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
