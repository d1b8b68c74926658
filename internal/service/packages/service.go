package packages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	subRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/subscription"
	"github.com/bookati/Bookati-BookingService/internal/service/packages/models"
)

// Service сервис для работы с пакетными подписками
type Service struct {
	subRepo   SubscriptionRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса пакетов
func NewService(subRepo SubscriptionRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		subRepo:   subRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Subscribe оформляет подписку клиента на пакет.
// Подписка и строки леджера по каждой услуге пакета создаются
// в одной транзакции.
func (s *Service) Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscriptionResponse, error) {
	s.logger.Info("Subscribe: customer=%s, package=%s, tenant=%s", req.CustomerID, req.PackageID, req.TenantID)

	if req.CustomerID == uuid.Nil || req.PackageID == uuid.Nil {
		return nil, fmt.Errorf("%w: customerId and packageId are required", ErrInvalidInput)
	}

	var (
		created  *domain.PackageSubscription
		services []domain.PackageServiceQuantity
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		services, err = s.subRepo.GetPackageServices(txCtx, req.PackageID)
		if err != nil {
			if errors.Is(err, subRepo.ErrPackageNotFound) {
				return ErrPackageNotFound
			}
			s.logger.Error("Subscribe: failed to get package %s services: %v", req.PackageID, err)
			return fmt.Errorf("%w: Subscribe - repository error: %v", ErrInternal, err)
		}

		sub := &domain.PackageSubscription{
			ID:           uuid.New(),
			TenantID:     req.TenantID,
			CustomerID:   req.CustomerID,
			PackageID:    req.PackageID,
			Status:       domain.SubscriptionActive,
			IsActive:     true,
			SubscribedAt: time.Now().UTC(),
		}

		created, err = s.subRepo.CreateSubscription(txCtx, sub)
		if err != nil {
			s.logger.Error("Subscribe: failed to create subscription: %v", err)
			return fmt.Errorf("%w: Subscribe - repository error: %v", ErrInternal, err)
		}

		if err := s.subRepo.CreateUsageRows(txCtx, created.ID, services); err != nil {
			s.logger.Error("Subscribe: failed to create usage rows for subscription %s: %v", created.ID, err)
			return fmt.Errorf("%w: Subscribe - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subscribe: subscription %s created with %d ledger rows", created.ID, len(services))
	return models.FromDomainSubscription(created, services), nil
}

// ResolveCapacity возвращает суммарный остаток предоплаченной
// вместимости клиента по услуге. Значение всегда считается заново
// из леджера и никогда не кэшируется.
func (s *Service) ResolveCapacity(ctx context.Context, req *models.ResolveCapacityRequest) (*models.CapacityResponse, error) {
	if req.CustomerID == uuid.Nil || req.ServiceID == uuid.Nil {
		return nil, fmt.Errorf("%w: customerId and serviceId are required", ErrInvalidInput)
	}

	remaining, err := s.subRepo.SumRemainingCapacity(ctx, req.CustomerID, req.ServiceID)
	if err != nil {
		s.logger.Error("ResolveCapacity: repository error for customer=%s, service=%s: %v",
			req.CustomerID, req.ServiceID, err)
		return nil, fmt.Errorf("%w: ResolveCapacity - repository error: %v", ErrInternal, err)
	}

	return &models.CapacityResponse{
		CustomerID:        req.CustomerID,
		ServiceID:         req.ServiceID,
		RemainingCapacity: remaining,
	}, nil
}
