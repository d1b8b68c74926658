package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// Request модели

// SubscribeRequest запрос на оформление подписки на пакет
type SubscribeRequest struct {
	TenantID   uuid.UUID `json:"-"`
	CustomerID uuid.UUID `json:"customerId"`
	PackageID  uuid.UUID `json:"packageId"`
}

// ResolveCapacityRequest запрос остатка предоплаченной вместимости
// клиента по услуге
type ResolveCapacityRequest struct {
	CustomerID uuid.UUID `json:"customerId"`
	ServiceID  uuid.UUID `json:"serviceId"`
}

// Response модели

// ServiceQuantity остаток по одной услуге пакета
type ServiceQuantity struct {
	ServiceID uuid.UUID `json:"serviceId"`
	Quantity  int       `json:"quantity"`
}

// SubscriptionResponse ответ с данными подписки
type SubscriptionResponse struct {
	ID           uuid.UUID         `json:"id"`
	TenantID     uuid.UUID         `json:"tenantId"`
	CustomerID   uuid.UUID         `json:"customerId"`
	PackageID    uuid.UUID         `json:"packageId"`
	Status       string            `json:"status"`
	SubscribedAt time.Time         `json:"subscribedAt"`
	Services     []ServiceQuantity `json:"services"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// CapacityResponse ответ с агрегированным остатком по всем активным
// подпискам клиента
type CapacityResponse struct {
	CustomerID        uuid.UUID `json:"customerId"`
	ServiceID         uuid.UUID `json:"serviceId"`
	RemainingCapacity int       `json:"remainingCapacity"`
}

// FromDomainSubscription конвертирует domain модель в DTO
func FromDomainSubscription(s *domain.PackageSubscription, services []domain.PackageServiceQuantity) *SubscriptionResponse {
	if s == nil {
		return nil
	}

	resp := &SubscriptionResponse{
		ID:           s.ID,
		TenantID:     s.TenantID,
		CustomerID:   s.CustomerID,
		PackageID:    s.PackageID,
		Status:       string(s.Status),
		SubscribedAt: s.SubscribedAt,
		Services:     make([]ServiceQuantity, 0, len(services)),
		CreatedAt:    s.CreatedAt,
	}
	for _, sq := range services {
		resp.Services = append(resp.Services, ServiceQuantity{
			ServiceID: sq.ServiceID,
			Quantity:  sq.Quantity,
		})
	}
	return resp
}
