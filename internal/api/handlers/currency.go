package handlers

import (
	"errors"
	"net/http"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/rates"
)

// CurrencyHandler handles display currency selection and inspection.
type CurrencyHandler struct {
	rates *rates.Store
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(rateStore *rates.Store) *CurrencyHandler {
	return &CurrencyHandler{
		rates: rateStore,
	}
}

// Current handles GET requests for the active currency state, including
// whether the rate in use is a live one or the static default.
//
// Endpoint: GET /api/currency
// Response: 200 OK with rates.State
func (h *CurrencyHandler) Current(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.rates.Snapshot())
}

// Supported handles GET requests for the list of selectable currencies.
//
// Endpoint: GET /api/currency/supported
// Response: 200 OK with array of rates.Currency
func (h *CurrencyHandler) Supported(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, rates.Currencies)
}

// Select handles PUT requests to switch the display currency. Rate
// resolution failures are not errors at this level; the response carries the
// fallback state with usingDefaultRate set.
//
// Endpoint: PUT /api/currency
// Request Body: SelectCurrencyRequest (currency)
// Response: 200 OK with rates.State
// Error: 400 Bad Request if the body is invalid or the currency is unsupported
func (h *CurrencyHandler) Select(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SelectCurrencyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	state, err := h.rates.Select(r.Context(), req.Currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownCurrency) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrUnknownCurrency.Error(), req.Currency)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrRateUnavailable.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}
