package lock_slot

import (
	"errors"
	"net/http"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	acquireLock "github.com/bookati/Bookati-BookingService/internal/usecase/acquire_lock"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgSlotNotFound        = "слот не найден"
	msgSlotUnavailable     = "слот недоступен для бронирования"
	msgCapacityUnavailable = "недостаточно свободных мест в слоте"
	msgInvalidLockInput    = "некорректные параметры блокировки"
)

type Handler struct {
	useCase AcquireLockUseCase
	logger  Logger
}

func NewHandler(useCase AcquireLockUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/lock
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LockSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/lock - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/lock - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLockInput)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, acquireLock.ErrInvalidInput):
			h.logger.Warn("POST /bookings/lock - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLockInput)

		case errors.Is(err, acquireLock.ErrSlotNotFound):
			h.logger.Warn("POST /bookings/lock - Slot not found: slot_id=%s", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, acquireLock.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings/lock - Slot unavailable: slot_id=%s", req.SlotID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, acquireLock.ErrCapacityUnavailable):
			h.logger.Warn("POST /bookings/lock - Capacity unavailable: slot_id=%s, requested=%d",
				req.SlotID, req.ReservedCapacity)
			handlers.RespondConflict(w, msgCapacityUnavailable)

		default:
			h.logger.Error("POST /bookings/lock - Failed to acquire lock: slot_id=%s, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/lock - Lock acquired: lock_id=%s, slot_id=%s, expires_in=%ds",
		result.LockID, req.SlotID, result.ExpiresInSeconds)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
