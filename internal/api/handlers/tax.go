package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/tax"
)

// TaxHandler handles tax estimation requests.
type TaxHandler struct {
	client *tax.Client
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(client *tax.Client) *TaxHandler {
	return &TaxHandler{
		client: client,
	}
}

// TaxResponse carries the calculated tax figure.
type TaxResponse struct {
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// Calculate handles POST requests to estimate tax on an investment amount.
//
// Endpoint: POST /api/tax
// Request Body: TaxRequest (amount, is_long_term)
// Response: 200 OK with TaxResponse
// Error: 400 Bad Request if the body is invalid or the amount is not positive
// Error: 500 Internal Server Error if the calculation service fails
func (h *TaxHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TaxRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if !req.Amount.IsPositive() {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "amount must be a positive number")
		return
	}

	amount, err := h.client.Calculate(r.Context(), req.Amount, req.IsLongTerm)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToCalculateTax, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, TaxResponse{TaxAmount: amount})
}
