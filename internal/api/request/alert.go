package request

import "github.com/shopspring/decimal"

// CreateAlertRequest is the payload for registering a price alert.
type CreateAlertRequest struct {
	AssetType        string          `json:"asset_type"`
	Ticker           string          `json:"ticker"`
	PriceTarget      decimal.Decimal `json:"price_target"`
	TriggerCondition string          `json:"trigger_condition"`
}
