package list_slot_locks

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/service/locks"
)

const (
	msgMissingSlotIDs = "требуется хотя бы один slot_ids"
	msgInvalidSlotID  = "некорректный ID слота в slot_ids"
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

// Handle GET /api/v1/bookings/locks?slot_ids=id1,id2
// Параметр принимается и как CSV, и как повторяющийся slot_ids
// Любой невалидный UUID в списке отклоняет весь запрос
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()["slot_ids"]
	if len(values) == 0 {
		handlers.RespondBadRequest(w, msgMissingSlotIDs)
		return
	}

	var slotIDs []uuid.UUID
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				h.logger.Warn("GET /bookings/locks - Invalid slot ID %q: %v", part, err)
				handlers.RespondBadRequest(w, msgInvalidSlotID)
				return
			}
			slotIDs = append(slotIDs, id)
		}
	}

	result, err := h.service.ListBySlots(r.Context(), slotIDs)
	if err != nil {
		if errors.Is(err, locks.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgMissingSlotIDs)
			return
		}
		h.logger.Error("GET /bookings/locks - Failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
