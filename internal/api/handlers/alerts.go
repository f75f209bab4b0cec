package handlers

import (
	"net/http"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/alerts"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
)

// AlertHandler handles price alert registration and listing.
type AlertHandler struct {
	registrar *alerts.Registrar
	registry  *alerts.Registry
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(registrar *alerts.Registrar, registry *alerts.Registry) *AlertHandler {
	return &AlertHandler{
		registrar: registrar,
		registry:  registry,
	}
}

// Create handles POST requests to register a price alert.
//
// Endpoint: POST /api/alerts
// Request Body: CreateAlertRequest (asset_type, ticker, price_target, trigger_condition)
// Response: 201 Created with the registered Alert
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if registration fails
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAlertRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	alert, err := h.registrar.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToCreateAlert, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, alert)
}

// List handles GET requests for all pending alerts.
//
// Endpoint: GET /api/alerts
// Response: 200 OK with array of Alert
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.registry.List())
}
