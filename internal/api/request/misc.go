package request

import "github.com/shopspring/decimal"

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SelectCurrencyRequest switches the display currency.
type SelectCurrencyRequest struct {
	Currency string `json:"currency"`
}

// TaxRequest asks for the tax figure on an investment amount.
type TaxRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	IsLongTerm bool            `json:"is_long_term"`
}
