package update_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/auth"
	rescheduleBooking "github.com/bookati/Bookati-BookingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgAccessDenied       = "недостаточно прав для изменения бронирования"
	msgSlotChangeDenied   = "перенос на другой слот доступен только администратору тенанта"
	msgBookingNotFound    = "бронирование не найдено"
	msgBookingNotEditable = "бронирование нельзя изменить в текущем статусе"
	msgNewSlotNotFound    = "новый слот не найден"
	msgNewSlotInPast      = "новый слот уже начался или недоступен"
	msgServiceMismatch    = "новый слот относится к другой услуге"
	msgNotEnoughCapacity  = "недостаточно свободных мест в новом слоте"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if !auth.CanUpdateBooking(claims) {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Перенос затрагивает вместимость двух слотов - отдельное право
	if req.NewSlotID != nil && !auth.CanChangeSlot(claims) {
		h.logger.Warn("PATCH /bookings/{id} - Slot change denied: booking_id=%s, role=%s", bookingID, claims.Role)
		handlers.RespondForbidden(w, msgSlotChangeDenied)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, claims.TenantID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrTenantMismatch):
			h.logger.Warn("PATCH /bookings/{id} - Tenant mismatch: booking_id=%s, tenant=%s", bookingID, claims.TenantID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, rescheduleBooking.ErrBookingNotEditable):
			h.logger.Warn("PATCH /bookings/{id} - Booking not editable: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgBookingNotEditable)

		case errors.Is(err, rescheduleBooking.ErrNewSlotNotFound):
			h.logger.Warn("PATCH /bookings/{id} - New slot not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNewSlotNotFound)

		case errors.Is(err, rescheduleBooking.ErrNewSlotInPast):
			h.logger.Warn("PATCH /bookings/{id} - New slot in past: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgNewSlotInPast)

		case errors.Is(err, rescheduleBooking.ErrServiceMismatch):
			h.logger.Warn("PATCH /bookings/{id} - Service mismatch: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgServiceMismatch)

		case errors.Is(err, rescheduleBooking.ErrNotEnoughCapacity):
			h.logger.Warn("PATCH /bookings/{id} - Not enough capacity: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgNotEnoughCapacity)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated: booking_id=%s, slot_changed=%t",
		result.ID, result.SlotChanged)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
