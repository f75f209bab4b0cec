// Package tax estimates investment tax through an external calculation
// service. The service wraps its result in a Lambda-style envelope with the
// payload under a body key.
package tax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
)

type calculateRequest struct {
	IncomeType   string          `json:"income_type"`
	Amount       decimal.Decimal `json:"amount"`
	OtherDetails struct {
		IsLongTerm bool `json:"is_long_term"`
	} `json:"other_details"`
}

type calculateResponse struct {
	Body struct {
		TaxAmount decimal.Decimal `json:"tax_amount"`
		Error     string          `json:"error"`
	} `json:"body"`
}

// Client calls the tax calculation service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a tax client for the given calculation endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Calculate estimates the tax owed on an investment amount.
//
// Parameters:
//   - ctx: Request context
//   - amount: Taxable investment amount
//   - isLongTerm: Whether the holding qualifies for long-term treatment
//
// Returns:
//   - decimal.Decimal: The calculated tax amount
//   - error: If the request fails or the service reports an error in its body
func (c *Client) Calculate(ctx context.Context, amount decimal.Decimal, isLongTerm bool) (decimal.Decimal, error) {
	payload := calculateRequest{IncomeType: "investment", Amount: amount}
	payload.OtherDetails.IsLongTerm = isLongTerm

	body, err := json.Marshal(payload)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrFailedToCalculateTax, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrFailedToCalculateTax, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrFailedToCalculateTax, err)
	}
	defer resp.Body.Close()

	var result calculateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrFailedToCalculateTax, err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := result.Body.Error
		if detail == "" {
			detail = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrFailedToCalculateTax, detail)
	}

	return result.Body.TaxAmount, nil
}
