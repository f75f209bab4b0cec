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

// cryptoQuoteResponse maps the CoinMarketCap quotes/latest payload. Symbols
// can resolve to multiple listings; the first entry is the main coin rather
// than a token sharing its symbol.
type cryptoQuoteResponse struct {
	Data map[string][]struct {
		Quote struct {
			USD struct {
				Price json.Number `json:"price"`
			} `json:"USD"`
		} `json:"quote"`
	} `json:"data"`
}

// CoinMarketCapClient fetches cryptocurrency prices from the CoinMarketCap
// quotes/latest endpoint, throttled by a shared rate limiter.
type CoinMarketCapClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewCoinMarketCapClient creates a CoinMarketCap quote client.
//
// Parameters:
//   - baseURL: API root, e.g. "https://pro-api.coinmarketcap.com"
//   - apiKey: CoinMarketCap API key, sent in the X-CMC_PRO_API_KEY header
//   - requestsPerMinute: request budget shared across all lookups
//
// Returns:
//   - *CoinMarketCapClient: A new client instance ready for use
func NewCoinMarketCapClient(baseURL, apiKey string, requestsPerMinute int) *CoinMarketCapClient {
	return &CoinMarketCapClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Quote fetches the current USD price for a cryptocurrency symbol.
//
// Parameters:
//   - ctx: Request context, also bounds the limiter wait
//   - ticker: Cryptocurrency symbol (e.g., "BTC")
//
// Returns:
//   - decimal.Decimal: The current USD price
//   - error: If the request fails or the symbol has no listing with a price
func (c *CoinMarketCapClient) Quote(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	q := url.Values{}
	q.Set("symbol", ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/cryptocurrency/quotes/latest?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building quote request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching quote for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var payload cryptoQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decoding quote for %s: %w", ticker, err)
	}

	listings, ok := payload.Data[ticker]
	if !ok || len(listings) == 0 {
		return decimal.Zero, fmt.Errorf("no listing in quote response for %s", ticker)
	}

	raw := listings[0].Quote.USD.Price
	if raw == "" {
		return decimal.Zero, fmt.Errorf("no price in quote response for %s", ticker)
	}

	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q for %s: %w", raw, ticker, err)
	}

	return price, nil
}
