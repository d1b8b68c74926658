package release_lock

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/service/locks"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLockID      = "некорректный ID блокировки"
	msgLockNotFound       = "блокировка не найдена"
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

// ReleaseLockRequest HTTP request model
type ReleaseLockRequest struct {
	SessionID string `json:"sessionId"`
}

// ReleaseLockResponse HTTP response model
type ReleaseLockResponse struct {
	Released bool `json:"released"`
}

// Handle POST /api/v1/bookings/lock/{id}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lockID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("POST /bookings/lock/{id}/release - Invalid lock ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLockID)
		return
	}

	var req ReleaseLockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/lock/{id}/release - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		h.logger.Warn("POST /bookings/lock/{id}/release - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Release(r.Context(), lockID, sessionID); err != nil {
		switch {
		case errors.Is(err, locks.ErrLockNotFound):
			// Чужая или несуществующая блокировка наружу неотличимы
			h.logger.Warn("POST /bookings/lock/{id}/release - Lock not found: lock_id=%s", lockID)
			handlers.RespondNotFound(w, msgLockNotFound)

		case errors.Is(err, locks.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/lock/{id}/release - Failed: lock_id=%s, error=%v", lockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/lock/{id}/release - Lock released: lock_id=%s", lockID)
	handlers.RespondJSON(w, http.StatusOK, ReleaseLockResponse{Released: true})
}
