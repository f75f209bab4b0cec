package validation

import (
	"fmt"
	"strings"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
)

// ValidTriggerCondition contains the allowed alert trigger conditions.
var ValidTriggerCondition = map[string]bool{
	"ABOVE": true, "BELOW": true,
}

// ValidAlertAssetType contains the allowed alert asset types.
var ValidAlertAssetType = map[string]bool{
	"STOCK": true, "CRYPTO": true,
}

// ValidateCreateAlert validates a price alert creation request.
//
// Required fields:
//   - ticker: non-empty
//   - asset_type: STOCK or CRYPTO
//   - price_target: positive
//   - trigger_condition: ABOVE or BELOW
func ValidateCreateAlert(req request.CreateAlertRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	assetType := strings.ToUpper(strings.TrimSpace(req.AssetType))
	if !ValidAlertAssetType[assetType] {
		errors["assetType"] = fmt.Sprintf("invalid asset type: %s", req.AssetType)
	}

	if !req.PriceTarget.IsPositive() {
		errors["priceTarget"] = "price_target must be a positive number"
	}

	condition := strings.ToUpper(strings.TrimSpace(req.TriggerCondition))
	if !ValidTriggerCondition[condition] {
		errors["triggerCondition"] = fmt.Sprintf("invalid trigger condition: %s", req.TriggerCondition)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
