package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	lockRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/lock"
	"github.com/bookati/Bookati-BookingService/internal/service/locks/models"
)

// Service сервис для работы с блокировками слотов
type Service struct {
	lockRepo     LockRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(lockRepo LockRepository, logger Logger) *Service {
	return &Service{
		lockRepo:     lockRepo,
		timeProvider: &realTimeProvider{},
		logger:       logger,
	}
}

type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time { return time.Now() }

// Validate проверяет, что блокировка существует, принадлежит сессии
// и еще не истекла. Проверка без побочных эффектов: блокировка
// не продлевается и не удаляется.
func (s *Service) Validate(ctx context.Context, lockID, sessionID uuid.UUID) (*models.ValidateLockResponse, error) {
	if lockID == uuid.Nil || sessionID == uuid.Nil {
		return nil, fmt.Errorf("%w: lockId and sessionId are required", ErrInvalidInput)
	}

	l, err := s.lockRepo.GetByID(ctx, lockID)
	if err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			// Отсутствующая блокировка наружу неотличима от истекшей
			return &models.ValidateLockResponse{Valid: false, SecondsRemaining: 0}, nil
		}
		s.logger.Error("Validate: repository error for lock %s: %v", lockID, err)
		return nil, fmt.Errorf("%w: Validate - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	if l.SessionID != sessionID || l.IsExpired(now) {
		return &models.ValidateLockResponse{Valid: false, SecondsRemaining: 0}, nil
	}

	return &models.ValidateLockResponse{
		Valid:            true,
		SecondsRemaining: l.SecondsRemaining(now),
	}, nil
}

// Release снимает блокировку досрочно. Снять можно только свою
// блокировку - чужая сессия получает not found, не forbidden,
// чтобы не раскрывать существование чужих блокировок.
func (s *Service) Release(ctx context.Context, lockID, sessionID uuid.UUID) error {
	if lockID == uuid.Nil || sessionID == uuid.Nil {
		return fmt.Errorf("%w: lockId and sessionId are required", ErrInvalidInput)
	}

	if err := s.lockRepo.DeleteByIDAndSession(ctx, lockID, sessionID); err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			return ErrLockNotFound
		}
		s.logger.Error("Release: repository error for lock %s: %v", lockID, err)
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Release: lock %s released", lockID)
	return nil
}

// ListBySlots возвращает активные блокировки по списку слотов.
// Истекшие блокировки отфильтровываются по lock_expires_at,
// session_id владельцев наружу не отдается.
func (s *Service) ListBySlots(ctx context.Context, slotIDs []uuid.UUID) (*models.SlotLocksResponse, error) {
	if len(slotIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one slotId is required", ErrInvalidInput)
	}

	infos, err := s.lockRepo.ListActiveBySlots(ctx, slotIDs, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ListBySlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBySlots - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainLockInfos(infos), nil
}
