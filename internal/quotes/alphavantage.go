package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// globalQuoteResponse maps the Alpha Vantage GLOBAL_QUOTE payload. The API
// keys its fields with numbered labels and returns the price as a string.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

// AlphaVantageClient fetches stock prices from the Alpha Vantage GLOBAL_QUOTE
// endpoint. Requests are throttled by a shared rate limiter; the free tier
// tolerates only a handful of calls per minute.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAlphaVantageClient creates an Alpha Vantage quote client.
//
// Parameters:
//   - baseURL: API root, e.g. "https://www.alphavantage.co"
//   - apiKey: Alpha Vantage API key
//   - requestsPerMinute: request budget shared across all lookups
//
// Returns:
//   - *AlphaVantageClient: A new client instance ready for use
func NewAlphaVantageClient(baseURL, apiKey string, requestsPerMinute int) *AlphaVantageClient {
	return &AlphaVantageClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Quote fetches the current price for a stock ticker.
//
// The method blocks on the rate limiter before issuing the request, so a
// burst of tickers drains at the configured pace instead of tripping the
// provider's throttle.
//
// Parameters:
//   - ctx: Request context, also bounds the limiter wait
//   - ticker: Stock ticker symbol (e.g., "AAPL")
//
// Returns:
//   - decimal.Decimal: The current price
//   - error: If the request fails or the response carries no price
func (c *AlphaVantageClient) Quote(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", ticker)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching quote for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var payload globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decoding quote for %s: %w", ticker, err)
	}

	if payload.GlobalQuote.Price == "" {
		return decimal.Zero, fmt.Errorf("no price in quote response for %s", ticker)
	}

	price, err := decimal.NewFromString(payload.GlobalQuote.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q for %s: %w", payload.GlobalQuote.Price, ticker, err)
	}

	return price, nil
}
