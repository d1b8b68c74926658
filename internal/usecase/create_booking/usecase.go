package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	"github.com/bookati/Bookati-BookingService/internal/infra/queue"
	lockRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/lock"
	slotRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/slot"
)

// UseCase use case для создания бронирования
type UseCase struct {
	slotRepo     SlotRepository
	lockRepo     LockRepository
	bookingRepo  BookingRepository
	subRepo      SubscriptionRepository
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	lockRepo LockRepository,
	bookingRepo BookingRepository,
	subRepo SubscriptionRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		lockRepo:     lockRepo,
		bookingRepo:  bookingRepo,
		subRepo:      subRepo,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Шаги 2-8 выполняются в одной сериализуемой транзакции: при любой
// ошибке не остается ни списанной вместимости слота, ни строки
// бронирования, ни частичного списания лимитов пакета.
// Отправка билета/счета - строго после коммита и никогда не
// откатывает бронирование.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%s, service=%s, slot=%s, visitors=%d",
		req.TenantID, req.ServiceID, req.SlotID, req.VisitorCount)

	// 1. Валидация входных данных (включая visitorCount = adult + child)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result      *domain.Booking
		allocations []domain.PackageAllocation
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Блокируем строку слота - все конкурентные операции
		// с его вместимостью сериализуются здесь
		slot, err := uc.slotRepo.GetForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot %s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 2.1. Слот должен принадлежать тенанту и услуге из запроса
		if slot.TenantID != req.TenantID {
			return ErrTenantMismatch
		}
		if slot.ServiceID != req.ServiceID {
			return ErrServiceMismatch
		}
		if !slot.IsBookable(now) {
			return ErrSlotUnavailable
		}

		// 3. Валидация блокировки, если она передана
		if req.LockID != nil {
			if err := uc.validateLock(txCtx, req, now); err != nil {
				return err
			}
		}

		// 4. Авторитетная повторная проверка вместимости: блокировка
		// только резервировала места, финальная проверка учитывает
		// бронирования, подтвержденные после ее получения.
		// Собственная блокировка клиента исключается из суммы -
		// иначе она считалась бы против самого клиента.
		otherReserved, err := uc.lockRepo.SumActiveBySlot(txCtx, req.SlotID, now, req.LockID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to sum active locks for slot %s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to sum active locks: %v", ErrInternal, err)
		}
		if !slot.AvailableFor(req.VisitorCount, otherReserved) {
			uc.logger.Warn("CreateBooking: not enough capacity in slot %s: remaining=%d, reserved=%d, requested=%d",
				req.SlotID, slot.RemainingCapacity, otherReserved, req.VisitorCount)
			return ErrNotEnoughCapacity
		}

		// 5. Списываем вместимость слота (охранное условие в запросе
		// дублирует проверку выше на случай гонки)
		if err := uc.slotRepo.DecrementCapacity(txCtx, req.SlotID, req.VisitorCount); err != nil {
			if errors.Is(err, slotRepo.ErrCapacityExceeded) {
				return ErrNotEnoughCapacity
			}
			uc.logger.Error("CreateBooking: failed to decrement slot %s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to decrement slot capacity: %v", ErrInternal, err)
		}

		// 6. Покрытие пакетами: сначала исчерпывается самая старая подписка
		if req.CustomerID != nil {
			allocations, err = uc.allocatePackageCoverage(txCtx, *req.CustomerID, req.ServiceID, req.VisitorCount)
			if err != nil {
				return err
			}
		}

		covered := coveredQuantity(allocations)
		paid := req.VisitorCount - covered

		// 7. Создаем бронирование
		booking := &domain.Booking{
			ID:                     uuid.New(),
			TenantID:               req.TenantID,
			ServiceID:              req.ServiceID,
			SlotID:                 req.SlotID,
			CustomerID:             req.CustomerID,
			CustomerName:           req.CustomerName,
			CustomerPhone:          req.CustomerPhone,
			CustomerEmail:          req.CustomerEmail,
			VisitorCount:           req.VisitorCount,
			AdultCount:             req.AdultCount,
			ChildCount:             req.ChildCount,
			TotalPrice:             req.TotalPrice,
			Status:                 domain.StatusConfirmed,
			PaymentStatus:          paymentStatusFor(paid),
			PackageCoveredQuantity: covered,
			PaidQuantity:           paid,
			Notes:                  req.Notes,
		}
		if len(allocations) > 0 {
			booking.PackageSubscriptionID = &allocations[0].SubscriptionID
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 8. Использованная блокировка удаляется - она выполнила свою задачу
		if req.LockID != nil {
			err := uc.lockRepo.DeleteByIDAndSession(txCtx, *req.LockID, *req.SessionID)
			if err != nil && !errors.Is(err, lockRepo.ErrLockNotFound) {
				uc.logger.Error("CreateBooking: failed to delete consumed lock %s: %v", *req.LockID, err)
				return fmt.Errorf("%w: failed to delete consumed lock: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking %s created (slot=%s, covered=%d, paid=%d)",
		result.ID, result.SlotID, result.PackageCoveredQuantity, result.PaidQuantity)

	// 9. Пост-коммитные уведомления: ошибки логируются и не влияют на ответ
	uc.publishEvents(ctx, req, result, allocations)

	return toResponse(result), nil
}

// validateLock проверяет переданную блокировку внутри транзакции
func (uc *UseCase) validateLock(ctx context.Context, req *Request, now time.Time) error {
	l, err := uc.lockRepo.GetByID(ctx, *req.LockID)
	if err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			return ErrLockInvalid
		}
		uc.logger.Error("CreateBooking: failed to get lock %s: %v", *req.LockID, err)
		return fmt.Errorf("%w: failed to get lock: %v", ErrInternal, err)
	}

	if l.SlotID != req.SlotID || l.SessionID != *req.SessionID {
		return ErrLockInvalid
	}
	if l.IsExpired(now) {
		return ErrLockExpired
	}

	return nil
}

// allocatePackageCoverage распределяет посещения по подпискам клиента
// и списывает лимиты. Исчерпанные пары (подписка, услуга) фиксируются
// идемпотентной вставкой - повторное исчерпание не создает вторую запись.
func (uc *UseCase) allocatePackageCoverage(ctx context.Context, customerID, serviceID uuid.UUID, visitors int) ([]domain.PackageAllocation, error) {
	usages, err := uc.subRepo.ListUsageForUpdate(ctx, customerID, serviceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list package usage for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("%w: failed to list package usage: %v", ErrInternal, err)
	}

	allocations := allocateFromSubscriptions(usages, visitors)

	for _, a := range allocations {
		if err := uc.subRepo.ConsumeUsage(ctx, a.SubscriptionID, serviceID, a.Quantity); err != nil {
			// Строки заблокированы FOR UPDATE, недостаток остатка здесь
			// означает рассинхрон - откатываем всю транзакцию
			uc.logger.Error("CreateBooking: failed to consume usage (subscription=%s): %v", a.SubscriptionID, err)
			return nil, fmt.Errorf("%w: failed to consume package usage: %v", ErrInternal, err)
		}

		if a.Exhausted {
			if err := uc.subRepo.InsertExhaustionNotification(ctx, a.SubscriptionID, serviceID); err != nil {
				uc.logger.Error("CreateBooking: failed to record exhaustion (subscription=%s): %v", a.SubscriptionID, err)
				return nil, fmt.Errorf("%w: failed to record exhaustion: %v", ErrInternal, err)
			}
		}
	}

	return allocations, nil
}

// publishEvents публикует пост-коммитные события диспетчеру уведомлений
func (uc *UseCase) publishEvents(ctx context.Context, req *Request, b *domain.Booking, allocations []domain.PackageAllocation) {
	created := &queue.BookingCreatedEvent{
		BookingID:              b.ID,
		TenantID:               b.TenantID,
		ServiceID:              b.ServiceID,
		SlotID:                 b.SlotID,
		CustomerName:           b.CustomerName,
		CustomerPhone:          b.CustomerPhone,
		CustomerEmail:          b.CustomerEmail,
		VisitorCount:           b.VisitorCount,
		TotalPrice:             b.TotalPrice,
		PackageCoveredQuantity: b.PackageCoveredQuantity,
		PaidQuantity:           b.PaidQuantity,
		CreatedAt:              b.CreatedAt,
	}
	if err := uc.publisher.Publish(ctx, queue.RoutingKeyBookingCreated, created); err != nil {
		uc.logger.Error("CreateBooking: failed to publish booking.created for %s: %v", b.ID, err)
	}

	for _, a := range allocations {
		if !a.Exhausted {
			continue
		}
		event := &queue.PackageExhaustedEvent{
			SubscriptionID: a.SubscriptionID,
			ServiceID:      a.ServiceID,
			TenantID:       b.TenantID,
			CustomerID:     *req.CustomerID,
		}
		if err := uc.publisher.Publish(ctx, queue.RoutingKeyPackageExhausted, event); err != nil {
			uc.logger.Error("CreateBooking: failed to publish package.exhausted for %s: %v", a.SubscriptionID, err)
		}
	}
}

// paymentStatusFor определяет статус оплаты по числу мест,
// оставшихся к оплате деньгами
func paymentStatusFor(paid int) domain.PaymentStatus {
	if paid == 0 {
		// Все посетители покрыты пакетом - платить нечего
		return domain.PaymentPaid
	}
	return domain.PaymentUnpaid
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                     b.ID,
		TenantID:               b.TenantID,
		ServiceID:              b.ServiceID,
		SlotID:                 b.SlotID,
		CustomerID:             b.CustomerID,
		CustomerName:           b.CustomerName,
		CustomerPhone:          b.CustomerPhone,
		CustomerEmail:          b.CustomerEmail,
		VisitorCount:           b.VisitorCount,
		AdultCount:             b.AdultCount,
		ChildCount:             b.ChildCount,
		TotalPrice:             b.TotalPrice,
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
		PackageCoveredQuantity: b.PackageCoveredQuantity,
		PaidQuantity:           b.PaidQuantity,
		PackageSubscriptionID:  b.PackageSubscriptionID,
		Notes:                  b.Notes,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}
