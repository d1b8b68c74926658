package reschedule_booking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	bookingRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/slot"
)

// UseCase use case для обновления и переноса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	lockRepo     LockRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	lockRepo LockRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		lockRepo:     lockRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case обновления бронирования.
// Перенос на другой слот атомарен: возврат вместимости старого слота
// и списание вместимости нового происходят в одной сериализуемой
// транзакции - частичный перенос невозможен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, tenant=%s", req.BookingID, req.TenantID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result      *domain.Booking
		slotChanged bool
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Блокируем строку бронирования
		booking, err := uc.bookingRepo.GetForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking %s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.TenantID != req.TenantID {
			return ErrTenantMismatch
		}
		if booking.IsCancelled() || booking.Status == domain.StatusCompleted {
			return ErrBookingNotEditable
		}

		upd := bookingRepo.BookingUpdate{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			Notes:         req.Notes,
		}
		if req.Status != nil {
			status := domain.BookingStatus(*req.Status)
			upd.Status = &status
		}
		if req.PaymentStatus != nil {
			paymentStatus := domain.PaymentStatus(*req.PaymentStatus)
			upd.PaymentStatus = &paymentStatus
		}

		// 3. Перенос на другой слот
		slotChanged = req.NewSlotID != nil && *req.NewSlotID != booking.SlotID
		if slotChanged {
			if err := uc.moveToSlot(txCtx, booking, *req.NewSlotID, now); err != nil {
				return err
			}
			upd.SlotID = req.NewSlotID
		}

		// 4. Применяем изменения
		if err := uc.bookingRepo.Update(txCtx, booking.ID, upd); err != nil {
			uc.logger.Error("RescheduleBooking: failed to update booking %s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result, err = uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to reload booking %s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking %s updated (slot_changed=%t, slot=%s)",
		result.ID, slotChanged, result.SlotID)

	return toResponse(result, slotChanged), nil
}

// moveToSlot переносит бронирование на другой слот внутри транзакции.
// Оба слота блокируются в порядке возрастания UUID, чтобы встречные
// переносы между одной парой слотов не взаимоблокировались.
func (uc *UseCase) moveToSlot(ctx context.Context, booking *domain.Booking, newSlotID uuid.UUID, now time.Time) error {
	if !booking.CanBeRescheduled() {
		return ErrBookingNotEditable
	}

	oldSlotID := booking.SlotID

	first, second := oldSlotID, newSlotID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	var oldSlot, newSlot *domain.Slot
	for _, id := range []uuid.UUID{first, second} {
		s, err := uc.slotRepo.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				if id == newSlotID {
					return ErrNewSlotNotFound
				}
				uc.logger.Error("RescheduleBooking: current slot %s of booking %s is missing", id, booking.ID)
				return fmt.Errorf("%w: current slot not found", ErrInternal)
			}
			uc.logger.Error("RescheduleBooking: failed to get slot %s: %v", id, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if id == oldSlotID {
			oldSlot = s
		} else {
			newSlot = s
		}
	}

	if newSlot.TenantID != booking.TenantID {
		return ErrTenantMismatch
	}
	if newSlot.ServiceID != booking.ServiceID {
		return ErrServiceMismatch
	}
	if !newSlot.IsBookable(now) {
		return ErrNewSlotInPast
	}

	// Вместимость нового слота проверяется с учетом живых блокировок,
	// как при создании бронирования
	reserved, err := uc.lockRepo.SumActiveBySlot(ctx, newSlot.ID, now, nil)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to sum active locks for slot %s: %v", newSlot.ID, err)
		return fmt.Errorf("%w: failed to sum active locks: %v", ErrInternal, err)
	}
	if !newSlot.AvailableFor(booking.VisitorCount, reserved) {
		uc.logger.Warn("RescheduleBooking: not enough capacity in slot %s: remaining=%d, reserved=%d, requested=%d",
			newSlot.ID, newSlot.RemainingCapacity, reserved, booking.VisitorCount)
		return ErrNotEnoughCapacity
	}

	if err := uc.slotRepo.DecrementCapacity(ctx, newSlot.ID, booking.VisitorCount); err != nil {
		if errors.Is(err, slotRepo.ErrCapacityExceeded) {
			return ErrNotEnoughCapacity
		}
		uc.logger.Error("RescheduleBooking: failed to decrement slot %s: %v", newSlot.ID, err)
		return fmt.Errorf("%w: failed to decrement new slot capacity: %v", ErrInternal, err)
	}
	if err := uc.slotRepo.IncrementCapacity(ctx, oldSlot.ID, booking.VisitorCount); err != nil {
		uc.logger.Error("RescheduleBooking: failed to increment slot %s: %v", oldSlot.ID, err)
		return fmt.Errorf("%w: failed to restore old slot capacity: %v", ErrInternal, err)
	}

	return nil
}

func toResponse(b *domain.Booking, slotChanged bool) *Response {
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
		Notes:                  b.Notes,
		SlotChanged:            slotChanged,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}
