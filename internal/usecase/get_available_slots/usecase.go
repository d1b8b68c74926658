package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// UseCase use case витрины доступных слотов
type UseCase struct {
	slotRepo     SlotRepository
	lockRepo     LockRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	lockRepo LockRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		lockRepo:     lockRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает слоты услуги на дату с эффективной доступностью.
// Витрина согласована с правилом создания бронирования: активные
// блокировки уменьшают показываемый остаток, просроченные игнорируются.
// Снимок не резервирует места - реальная проверка происходит
// при захвате блокировки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%s, service=%s, date=%s",
		req.TenantID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Слоты услуги, начинающиеся в запрошенные сутки (UTC)
	dayStart := req.Date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	slots, err := uc.slotRepo.ListByServiceAndDate(ctx, req.TenantID, req.ServiceID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 3. Прошедшие слоты не показываем
	bookable := slots[:0]
	for _, s := range slots {
		if s.IsBookable(now) {
			bookable = append(bookable, s)
		}
	}

	resp := &Response{
		Date:      dayStart.Format(domain.DateFormat),
		TenantID:  req.TenantID,
		ServiceID: req.ServiceID,
		Slots:     make([]Slot, 0, len(bookable)),
	}
	if len(bookable) == 0 {
		return resp, nil
	}

	// 4. Суммы активных блокировок одним запросом по всем слотам
	slotIDs := make([]uuid.UUID, 0, len(bookable))
	for _, s := range bookable {
		slotIDs = append(slotIDs, s.ID)
	}

	reserved, err := uc.lockRepo.SumActiveBySlots(ctx, slotIDs, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to sum active locks: %v", err)
		return nil, fmt.Errorf("%w: failed to sum active locks: %v", ErrInternal, err)
	}

	// 5. Эффективная доступность: остаток минус активные блокировки
	for _, s := range bookable {
		available := s.RemainingCapacity - reserved[s.ID]
		if available < 0 {
			available = 0
		}
		resp.Slots = append(resp.Slots, Slot{
			ID:                 s.ID,
			StartTime:          s.StartTime,
			EndTime:            s.EndTime,
			TotalCapacity:      s.TotalCapacity,
			EffectiveAvailable: available,
		})
	}

	uc.logger.Info("GetAvailableSlots: %d slots for tenant=%s, service=%s, date=%s",
		len(resp.Slots), req.TenantID, req.ServiceID, resp.Date)

	return resp, nil
}
