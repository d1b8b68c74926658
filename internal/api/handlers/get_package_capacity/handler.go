package get_package_capacity

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/auth"
	"github.com/bookati/Bookati-BookingService/internal/service/packages"
	"github.com/bookati/Bookati-BookingService/internal/service/packages/models"
)

const (
	msgAccessDenied   = "недостаточно прав для просмотра лимитов"
	msgInvalidRequest = "требуются customerId и serviceId"
)

type Handler struct {
	service PackagesService
	logger  Logger
}

func NewHandler(service PackagesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/packages/capacity?customerId=...&serviceId=...
// Остаток всегда считается заново из леджера
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if !auth.CanManagePackages(claims) {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	customerID, err := uuid.Parse(r.URL.Query().Get("customerId"))
	if err != nil {
		h.logger.Warn("GET /packages/capacity - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}
	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /packages/capacity - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.service.ResolveCapacity(r.Context(), &models.ResolveCapacityRequest{
		CustomerID: customerID,
		ServiceID:  serviceID,
	})
	if err != nil {
		if errors.Is(err, packages.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidRequest)
			return
		}
		h.logger.Error("GET /packages/capacity - Failed: customer=%s, service=%s, error=%v",
			customerID, serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
