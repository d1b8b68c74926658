package create_booking

import (
	"errors"
	"net/http"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/auth"
	createBooking "github.com/bookati/Bookati-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAccessDenied       = "недостаточно прав для создания бронирования"
	msgSlotNotFound       = "слот не найден"
	msgServiceMismatch    = "слот относится к другой услуге"
	msgTenantMismatch     = "слот принадлежит другому тенанту"
	msgSlotUnavailable    = "слот недоступен для бронирования"
	msgLockInvalid        = "блокировка не найдена или принадлежит другой сессии"
	msgLockExpired        = "срок действия блокировки истек"
	msgNotEnoughCapacity  = "недостаточно свободных мест в слоте"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if !auth.CanCreateBooking(claims) {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(claims.TenantID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%s", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrTenantMismatch):
			h.logger.Warn("POST /bookings - Tenant mismatch: slot_id=%s, tenant=%s", req.SlotID, claims.TenantID)
			handlers.RespondForbidden(w, msgTenantMismatch)

		case errors.Is(err, createBooking.ErrServiceMismatch):
			h.logger.Warn("POST /bookings - Service mismatch: slot_id=%s, service_id=%s", req.SlotID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceMismatch)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: slot_id=%s", req.SlotID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrLockInvalid):
			h.logger.Warn("POST /bookings - Lock invalid: slot_id=%s", req.SlotID)
			handlers.RespondForbidden(w, msgLockInvalid)

		case errors.Is(err, createBooking.ErrLockExpired):
			h.logger.Warn("POST /bookings - Lock expired: slot_id=%s", req.SlotID)
			handlers.RespondConflict(w, msgLockExpired)

		case errors.Is(err, createBooking.ErrNotEnoughCapacity):
			h.logger.Warn("POST /bookings - Not enough capacity: slot_id=%s, visitors=%d",
				req.SlotID, req.VisitorCount)
			handlers.RespondConflict(w, msgNotEnoughCapacity)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: slot_id=%s, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%s, slot_id=%s, covered=%d, paid=%d",
		result.ID, result.SlotID, result.PackageCoveredQuantity, result.PaidQuantity)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
