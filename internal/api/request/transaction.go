package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the payload for recording a buy or sell. The
// ticker is normalized to upper case before submission to the backend.
type CreateTransactionRequest struct {
	Ticker          string          `json:"ticker"`
	Units           decimal.Decimal `json:"units"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TransactionType string          `json:"transaction_type"`
}

// UpdateTransactionRequest carries the mutable fields of a transaction.
// Ticker and type are immutable after creation.
type UpdateTransactionRequest struct {
	Units        decimal.Decimal `json:"units"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}
