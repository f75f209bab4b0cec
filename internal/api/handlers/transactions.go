package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/transactions"
)

// TransactionHandler handles HTTP requests for one asset class's transaction
// endpoints. It serves as the HTTP layer adapter, parsing requests and
// delegating business logic to the transaction service. Two instances are
// mounted, one per asset class.
type TransactionHandler struct {
	service *transactions.Service
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(service *transactions.Service) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// List handles GET requests to retrieve all transactions of the asset class.
//
// Endpoint: GET /api/{class}/transactions
// Response: 200 OK with array of Transaction
// Error: 401 Unauthorized if the backend rejects the session
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveTransactions, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, txs)
}

// ByTicker handles GET requests to retrieve transactions for one ticker.
// The ticker match is case insensitive.
//
// Endpoint: GET /api/{class}/transactions/ticker/{ticker}
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ByTicker(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	txs, err := h.service.ListByTicker(r.Context(), ticker)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveTransactions, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, txs)
}

// Create handles POST requests to record a new transaction.
//
// Endpoint: POST /api/{class}/transactions
// Request Body: CreateTransactionRequest (ticker, units, price_per_unit, transaction_type)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToCreateTransaction, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, tx)
}

// Update handles PUT requests to change the units and price of a transaction.
//
// Endpoint: PUT /api/{class}/transactions/{id}
// Request Body: UpdateTransactionRequest (units, price_per_unit)
// Response: 200 OK with Transaction
// Error: 400 Bad Request if the ID or body is invalid or validation fails
// Error: 404 Not Found if the transaction does not exist
// Error: 500 Internal Server Error if the update fails
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToUpdateTransaction, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, tx)
}

// Delete handles DELETE requests to remove a transaction. Deletion requires
// the confirm=true query parameter; without it the request is rejected and
// nothing is forwarded.
//
// Endpoint: DELETE /api/{class}/transactions/{id}?confirm=true
// Response: 204 No Content
// Error: 400 Bad Request if the ID is invalid or confirmation is missing
// Error: 404 Not Found if the transaction does not exist
// Error: 500 Internal Server Error if the deletion fails
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.service.Delete(r.Context(), id, confirmed); err != nil {
		if errors.Is(err, apperrors.ErrDeleteNotConfirmed) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrDeleteNotConfirmed.Error(), "pass confirm=true to delete")
			return
		}
		respondServiceError(w, apperrors.ErrFailedToDeleteTransaction, err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Summary handles GET requests to retrieve the per-ticker summary of the class.
//
// Endpoint: GET /api/{class}/summary
// Response: 200 OK with array of SummaryRow (empty array when no holdings)
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Summary(r.Context())
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveSummary, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, rows)
}
