package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	"github.com/bookati/Bookati-BookingService/internal/infra/queue"
	bookingRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/booking"
	"github.com/bookati/Bookati-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &realTimeProvider{},
		logger:       logger,
	}
}

type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time { return time.Now() }

// GetByID получает бронирование по ID
// Бронирование другого тенанта наружу не отдается
func (s *Service) GetByID(ctx context.Context, id, tenantID uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for tenant=%s", id, tenantID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.TenantID != tenantID {
		s.logger.Warn("GetByID: access denied for tenant=%s to booking id=%s", tenantID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetTenantBookings получает бронирования тенанта с гибкой фильтрацией
// Поддерживает фильтрацию по услуге, слоту, клиенту, периоду и статусу
func (s *Service) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTenantBookings: fetching bookings for tenant=%s", req.TenantID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantBookings: invalid filter for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantBookings: fetched %d bookings for tenant=%s", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и возвращает вместимость слота.
// Отмена и возврат вместимости выполняются в одной транзакции.
// Ранее списанные лимиты пакета при отмене не восстанавливаются.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s for tenant=%s", req.BookingID, req.TenantID)

	now := s.timeProvider.Now()

	var cancelled *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if booking.TenantID != req.TenantID {
			return ErrAccessDenied
		}
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s in status %s cannot be cancelled", booking.ID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, booking.ID, req.CancellationReason, now); err != nil {
			if errors.Is(err, bookingRepo.ErrCannotCancel) {
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: failed to cancel booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Места возвращаются в слот в той же транзакции
		if err := s.slotRepo.IncrementCapacity(txCtx, booking.SlotID, booking.VisitorCount); err != nil {
			s.logger.Error("Cancel: failed to restore capacity of slot %s: %v", booking.SlotID, err)
			return fmt.Errorf("%w: Cancel - failed to restore slot capacity: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		booking.CancellationReason = &req.CancellationReason
		booking.CancelledAt = &now
		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%s cancelled, %d seats restored to slot %s",
		cancelled.ID, cancelled.VisitorCount, cancelled.SlotID)

	// Пост-коммитное событие: ошибки логируются и не влияют на ответ
	event := &queue.BookingCancelledEvent{
		BookingID:     cancelled.ID,
		TenantID:      cancelled.TenantID,
		CustomerName:  cancelled.CustomerName,
		CustomerPhone: cancelled.CustomerPhone,
		Reason:        req.CancellationReason,
		CancelledAt:   now,
	}
	if err := s.publisher.Publish(ctx, queue.RoutingKeyBookingCancelled, event); err != nil {
		s.logger.Error("Cancel: failed to publish booking.cancelled for %s: %v", cancelled.ID, err)
	}

	return models.FromDomainBooking(cancelled), nil
}
