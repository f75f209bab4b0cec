package validation

import (
	"fmt"
	"strings"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"BUY": true, "SELL": true,
}

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - ticker: non-empty (case is normalized later, not validated here)
//   - units: positive
//   - price_per_unit: positive
//   - transaction_type: BUY or SELL
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	if !req.Units.IsPositive() {
		errors["units"] = "units must be positive"
	}

	if !req.PricePerUnit.IsPositive() {
		errors["pricePerUnit"] = "price_per_unit must be positive"
	}

	txType := strings.ToUpper(strings.TrimSpace(req.TransactionType))
	if txType == "" {
		errors["transactionType"] = "transaction_type is required"
	} else if !ValidTransactionType[txType] {
		errors["transactionType"] = fmt.Sprintf("invalid type: %s", req.TransactionType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateTransaction validates a transaction update request. Only units
// and price-per-unit are mutable; both must be positive.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := make(map[string]string)

	if !req.Units.IsPositive() {
		errors["units"] = "units must be positive"
	}

	if !req.PricePerUnit.IsPositive() {
		errors["pricePerUnit"] = "price_per_unit must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
