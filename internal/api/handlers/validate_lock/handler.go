package validate_lock

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/service/locks"
)

const (
	msgInvalidLockID    = "некорректный ID блокировки"
	msgInvalidSessionID = "некорректный ID сессии"
)

type Handler struct {
	service LocksService
	logger  Logger
}

func NewHandler(service LocksService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/lock/{id}/validate?sessionId=...
// Проверка без побочных эффектов: блокировка не продлевается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lockID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("GET /bookings/lock/{id}/validate - Invalid lock ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLockID)
		return
	}

	sessionID, err := uuid.Parse(r.URL.Query().Get("sessionId"))
	if err != nil {
		h.logger.Warn("GET /bookings/lock/{id}/validate - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	result, err := h.service.Validate(r.Context(), lockID, sessionID)
	if err != nil {
		if errors.Is(err, locks.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidLockID)
			return
		}
		h.logger.Error("GET /bookings/lock/{id}/validate - Failed: lock_id=%s, error=%v", lockID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
