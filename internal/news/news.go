// Package news fetches market news and sentiment from the Alpha Vantage
// NEWS_SENTIMENT endpoint.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
)

// MaxArticles caps every result set regardless of what the provider returns.
const MaxArticles = 10

// Article is one entry in a news feed.
type Article struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Summary string  `json:"summary"`
	Source  string  `json:"source"`
	Topics  []Topic `json:"topics"`
}

// Topic is a sentiment topic attached to an article.
type Topic struct {
	Topic string `json:"topic"`
}

// Query narrows a news fetch. Both fields are optional comma separated
// lists; empty values are still sent so the request shape stays constant.
type Query struct {
	Tickers string
	Topics  string
}

type feedResponse struct {
	Feed []Article `json:"feed"`
}

// Client fetches news from Alpha Vantage, sharing its rate limiting
// approach with the quote clients.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewClient creates a news client.
//
// Parameters:
//   - baseURL: API root, e.g. "https://www.alphavantage.co"
//   - apiKey: Alpha Vantage API key
//
// Returns:
//   - *Client: A new client instance ready for use
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		now:        time.Now,
	}
}

// Fetch retrieves today's news matching the query, newest first, capped at
// MaxArticles. A response without a feed is not an error; it yields an empty
// slice so callers can render "no news" directly.
//
// Parameters:
//   - ctx: Request context
//   - query: Optional ticker and topic filters
//
// Returns:
//   - []Article: Up to MaxArticles articles, never nil
//   - error: If the request fails or the payload cannot be decoded
func (c *Client) Fetch(ctx context.Context, query Query) ([]Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("tickers", query.Tickers)
	q.Set("topics", query.Topics)
	q.Set("time_from", c.now().UTC().Format("20060102")+"T0000")
	q.Set("sort", "LATEST")
	q.Set("limit", fmt.Sprint(MaxArticles))
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveNews, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveNews, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", apperrors.ErrFailedToRetrieveNews, resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveNews, err)
	}

	articles := payload.Feed
	if articles == nil {
		return []Article{}, nil
	}
	if len(articles) > MaxArticles {
		articles = articles[:MaxArticles]
	}

	return articles, nil
}
