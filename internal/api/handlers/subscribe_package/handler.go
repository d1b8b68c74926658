package subscribe_package

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAccessDenied       = "недостаточно прав для оформления подписки"
	msgPackageNotFound    = "пакет не найден"
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

// SubscribeRequest HTTP request model
type SubscribeRequest struct {
	CustomerID string `json:"customerId"`
	PackageID  string `json:"packageId"`
}

// Handle POST /api/v1/packages/subscribe
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if !auth.CanManagePackages(claims) {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req SubscribeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /packages/subscribe - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.logger.Warn("POST /packages/subscribe - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		h.logger.Warn("POST /packages/subscribe - Invalid package ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Subscribe(r.Context(), &models.SubscribeRequest{
		TenantID:   claims.TenantID,
		CustomerID: customerID,
		PackageID:  packageID,
	})
	if err != nil {
		switch {
		case errors.Is(err, packages.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, packages.ErrPackageNotFound):
			h.logger.Warn("POST /packages/subscribe - Package not found: package_id=%s", packageID)
			handlers.RespondNotFound(w, msgPackageNotFound)

		default:
			h.logger.Error("POST /packages/subscribe - Failed: package_id=%s, error=%v", packageID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /packages/subscribe - Subscription created: subscription_id=%s, customer=%s",
		result.ID, customerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
