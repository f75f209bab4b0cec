package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset identifies an asset class on the backend of record. The two classes
// share payload shapes but live on different endpoint families.
type Asset string

const (
	// AssetCrypto is the cryptocurrency transaction class.
	AssetCrypto Asset = "crypto"
	// AssetStock is the stock transaction class.
	AssetStock Asset = "stock"
)

// Transaction is a buy or sell record as stored by the backend. The client
// holds ephemeral copies for display and editing only; it never mutates
// derived values locally.
type Transaction struct {
	ID              int64           `json:"id"`
	Ticker          string          `json:"ticker"`
	Units           decimal.Decimal `json:"units"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TransactionType string          `json:"transaction_type"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// NewTransaction is the payload for creating a transaction. The date is
// server-assigned and therefore absent.
type NewTransaction struct {
	Ticker          string          `json:"ticker"`
	Units           decimal.Decimal `json:"units"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TransactionType string          `json:"transaction_type"`
}

// TransactionUpdate carries the mutable fields of a transaction. Ticker and
// type are immutable after creation.
type TransactionUpdate struct {
	Units        decimal.Decimal `json:"units"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// SummaryRow is a per-ticker aggregation computed by the backend: signed unit
// total and cost-basis average over buys. Derived data, recomputed on every
// fetch.
type SummaryRow struct {
	Ticker       string          `json:"ticker"`
	TotalUnits   decimal.Decimal `json:"total_units"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// NewAlert is the payload for registering a price alert. Alerts are
// write-only from the client's perspective.
type NewAlert struct {
	AssetType        string          `json:"asset_type"`
	Ticker           string          `json:"ticker"`
	PriceTarget      decimal.Decimal `json:"price_target"`
	TriggerCondition string          `json:"trigger_condition"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the signup payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the credential pair issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
