package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the lifecycle status of a package subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// PackageSubscription is a customer's purchase of a prepaid package
type PackageSubscription struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	CustomerID uuid.UUID
	PackageID  uuid.UUID

	Status SubscriptionStatus
	// IsActive дублирует Status для совместимости со схемой
	IsActive bool

	SubscribedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsUsable returns true if capacity may be drawn from this subscription
func (s *PackageSubscription) IsUsable() bool {
	return s.Status == SubscriptionActive && s.IsActive
}

// PackageSubscriptionUsage is the per-(subscription, service) prepaid
// capacity ledger row
// Инвариант: RemainingQuantity = OriginalQuantity - UsedQuantity,
// 0 <= RemainingQuantity <= OriginalQuantity
type PackageSubscriptionUsage struct {
	SubscriptionID    uuid.UUID
	ServiceID         uuid.UUID
	OriginalQuantity  int
	UsedQuantity      int
	RemainingQuantity int

	// SubscribedAt подписки-владельца, определяет порядок списания
	// (сначала исчерпывается самая старая подписка)
	SubscribedAt time.Time
}

// IsExhausted returns true if the ledger row has no remaining capacity
func (u *PackageSubscriptionUsage) IsExhausted() bool {
	return u.RemainingQuantity <= 0
}

// PackageAllocation результат списания с одной подписки при создании
// бронирования
type PackageAllocation struct {
	SubscriptionID uuid.UUID
	ServiceID      uuid.UUID
	Quantity       int
	// Exhausted - остаток по паре (подписка, услуга) перешел из >0 в 0
	Exhausted bool
}

// PackageExhaustionNotification marks that (subscription_id, service_id)
// has been reported as exhausted. At most one row per pair.
type PackageExhaustionNotification struct {
	SubscriptionID uuid.UUID
	ServiceID      uuid.UUID
	CreatedAt      time.Time
}

// PackageServiceQuantity per-service capacity of a package definition,
// используется при создании подписки для инициализации леджера
type PackageServiceQuantity struct {
	ServiceID uuid.UUID
	Quantity  int
}
