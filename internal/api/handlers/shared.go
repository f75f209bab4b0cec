package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/validation"
)

// parseJSON decodes a request body into the given type. Unknown fields are
// rejected so typos in payloads surface as 400s instead of silent zero values.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// respondServiceError maps shared error cases to their HTTP status. Handler
// specific errors should be handled before calling this.
func respondServiceError(w http.ResponseWriter, fallback error, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), err.Error())
	case errors.Is(err, apperrors.ErrTransactionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
