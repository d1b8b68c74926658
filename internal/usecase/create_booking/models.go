package create_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID  uuid.UUID // Тенант, от имени которого действует сотрудник
	ServiceID uuid.UUID // ID услуги
	SlotID    uuid.UUID // ID слота

	CustomerID    *uuid.UUID // ID клиента (nil для гостевых бронирований)
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	VisitorCount int // Инвариант: VisitorCount = AdultCount + ChildCount
	AdultCount   int
	ChildCount   int

	TotalPrice float64
	Notes      *string

	// Блокировка, удерживаемая клиентом с шага выбора слота (опционально)
	LockID    *uuid.UUID
	SessionID *uuid.UUID
}

// Response модель ответа с созданным бронированием
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

	// Сколько посетителей покрыто пакетом и сколько оплачивается деньгами
	PackageCoveredQuantity int
	PaidQuantity           int
	PackageSubscriptionID  *uuid.UUID

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
