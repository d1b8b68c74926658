package get_tenant_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/api/handlers"
	"github.com/bookati/Bookati-BookingService/internal/auth"
	"github.com/bookati/Bookati-BookingService/internal/service/bookings"
	"github.com/bookati/Bookati-BookingService/internal/service/bookings/models"
)

const (
	msgAccessDenied  = "доступ запрещен"
	msgInvalidFilter = "некорректные параметры фильтра"

	dateFormat = "2006-01-02"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings
// Фильтры: serviceId, slotId, customerId, startDate, endDate, status,
// includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req, err := parseFilter(r, claims.TenantID)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetTenantBookings(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /bookings - Failed: tenant=%s, error=%v", claims.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseFilter(r *http.Request, tenantID uuid.UUID) (*models.GetTenantBookingsRequest, error) {
	q := r.URL.Query()

	req := &models.GetTenantBookingsRequest{
		TenantID:        tenantID,
		IncludeInactive: q.Get("includeInactive") == "true",
	}

	for param, dst := range map[string]**uuid.UUID{
		"serviceId":  &req.ServiceID,
		"slotId":     &req.SlotID,
		"customerId": &req.CustomerID,
	} {
		if raw := q.Get(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, err
			}
			*dst = &id
		}
	}

	for param, dst := range map[string]**time.Time{
		"startDate": &req.StartDate,
		"endDate":   &req.EndDate,
	} {
		if raw := q.Get(param); raw != "" {
			t, err := time.Parse(dateFormat, raw)
			if err != nil {
				return nil, err
			}
			*dst = &t
		}
	}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
