package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/domain"
	availableSlots "github.com/bookati/Bookati-BookingService/internal/usecase/get_available_slots"
)

const (
	msgMissingTenantID  = "требуется tenant_id"
	msgMissingServiceID = "требуется service_id"
	msgInvalidDate      = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgInvalidInput     = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots?tenant_id=...&service_id=...&date=YYYY-MM-DD
// Публичная витрина: авторизация не требуется, session_id владельцев
// блокировок не раскрывается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	tenantID, err := uuid.Parse(query.Get("tenant_id"))
	if err != nil {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}
	serviceID, err := uuid.Parse(query.Get("service_id"))
	if err != nil {
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &availableSlots.Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		if errors.Is(err, availableSlots.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /slots - Failed: tenant=%s, service=%s, error=%v", tenantID, serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
