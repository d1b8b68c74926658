package acquire_lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	slotRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/slot"
)

// UseCase use case для блокировки вместимости слота перед оформлением
type UseCase struct {
	slotRepo            SlotRepository
	lockRepo            LockRepository
	txManager           TransactionManager
	timeProvider        TimeProvider
	lockDuration        time.Duration
	maxReservedCapacity int
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	lockRepo LockRepository,
	txManager TransactionManager,
	lockDuration time.Duration,
	maxReservedCapacity int,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:            slotRepo,
		lockRepo:            lockRepo,
		txManager:           txManager,
		timeProvider:        &RealTimeProvider{},
		lockDuration:        lockDuration,
		maxReservedCapacity: maxReservedCapacity,
		logger:              logger,
	}
}

// Execute выполняет use case блокировки слота
// Проверка вместимости и вставка блокировки выполняются в одной
// сериализуемой транзакции под блокировкой строки слота: две
// конкурентные блокировки одного слота не могут обе пройти,
// если их суммарный запрос превышает доступные места
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AcquireLock: slot=%s, capacity=%d", req.SlotID, req.ReservedCapacity)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxReservedCapacity); err != nil {
		uc.logger.Warn("AcquireLock: validation failed: %v", err)
		return nil, err
	}

	// 2. Сессия клиента: переданная или новая
	sessionID := uuid.New()
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}

	now := uc.timeProvider.Now()
	var result *domain.BookingLock

	// 3. Проверка и вставка в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем строку слота (FOR UPDATE)
		slot, err := uc.slotRepo.GetForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			uc.logger.Error("AcquireLock: failed to get slot %s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 3.2. Слот должен быть доступен и в будущем
		if !slot.IsBookable(now) {
			return ErrSlotUnavailable
		}

		// 3.3. Считаем активные блокировки (просроченные отфильтрованы по времени)
		reserved, err := uc.lockRepo.SumActiveBySlot(txCtx, req.SlotID, now, nil)
		if err != nil {
			uc.logger.Error("AcquireLock: failed to sum active locks for slot %s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to sum active locks: %v", ErrInternal, err)
		}

		// 3.4. Проверяем доступность: remaining_capacity уже учитывает
		// подтвержденные бронирования, блокировки - отдельной суммой
		if !slot.AvailableFor(req.ReservedCapacity, reserved) {
			uc.logger.Warn("AcquireLock: capacity unavailable for slot %s: remaining=%d, reserved=%d, requested=%d",
				req.SlotID, slot.RemainingCapacity, reserved, req.ReservedCapacity)
			return ErrCapacityUnavailable
		}

		// 3.5. Вставляем блокировку
		created, err := uc.lockRepo.Create(txCtx, &domain.BookingLock{
			ID:               uuid.New(),
			SlotID:           req.SlotID,
			SessionID:        sessionID,
			ReservedCapacity: req.ReservedCapacity,
			LockExpiresAt:    now.Add(uc.lockDuration),
		})
		if err != nil {
			uc.logger.Error("AcquireLock: failed to create lock for slot %s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to create lock: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("AcquireLock: lock %s created for slot %s (session=%s, expires=%s)",
		result.ID, result.SlotID, result.SessionID, result.LockExpiresAt.Format(time.RFC3339))

	return &Response{
		LockID:           result.ID,
		SessionID:        result.SessionID,
		ExpiresAt:        result.LockExpiresAt,
		ExpiresInSeconds: result.SecondsRemaining(now),
	}, nil
}
