// Package backend implements the typed client for the backend of record. It
// attaches the session's bearer credential to every request and reacts to an
// authentication failure by purging the stored credentials, which forces the
// UI back to the login view.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/session"
)

// endpoints is the endpoint family of one asset class. The stock family
// predates the crypto one, which is why the paths are not symmetric.
type endpoints struct {
	create   string
	list     string
	summary  string
	detail   string // + "{id}/"
	byTicker string // + "{ticker}/"
}

var assetEndpoints = map[Asset]endpoints{
	AssetStock: {
		create:   "/api/transactions/",
		list:     "/api/transactions/all/",
		summary:  "/api/transactions/summary/",
		detail:   "/api/transactions/",
		byTicker: "/api/transactions/stock/",
	},
	AssetCrypto: {
		create:   "/api/transactions/crypto",
		list:     "/api/crypto/all/",
		summary:  "/api/crypto/summary/",
		detail:   "/api/transactions/crypto/",
		byTicker: "/api/transactions/crypto/",
	},
}

// APIError is a non-2xx response from the backend. Detail carries the
// server-provided message when one was present in the body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client talks to the backend of record.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
}

// NewClient creates a backend client. The session store supplies the bearer
// token and is purged when the backend answers 401.
func NewClient(baseURL string, timeout time.Duration, sess *session.Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
	}
}

// Login exchanges credentials for a token pair and stores it in the session.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	var tokens TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/token/", creds, &tokens); err != nil {
		return err
	}
	if tokens.Access == "" {
		return fmt.Errorf("%w: token missing from response", apperrors.ErrLoginFailed)
	}
	return c.session.Set(session.Tokens{Access: tokens.Access, Refresh: tokens.Refresh})
}

// Register creates a new user account. It does not log the user in.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, http.MethodPost, "/api/user/register/", reg, nil)
}

// CreateTransaction creates a transaction for the asset class.
func (c *Client) CreateTransaction(ctx context.Context, asset Asset, tx NewTransaction) (Transaction, error) {
	var created Transaction
	err := c.do(ctx, http.MethodPost, assetEndpoints[asset].create, tx, &created)
	return created, err
}

// ListTransactions returns all transactions of the asset class.
func (c *Client) ListTransactions(ctx context.Context, asset Asset) ([]Transaction, error) {
	var txs []Transaction
	err := c.do(ctx, http.MethodGet, assetEndpoints[asset].list, nil, &txs)
	return txs, err
}

// ListTransactionsByTicker returns the asset class transactions for one ticker.
func (c *Client) ListTransactionsByTicker(ctx context.Context, asset Asset, ticker string) ([]Transaction, error) {
	var txs []Transaction
	path := fmt.Sprintf("%s%s/", assetEndpoints[asset].byTicker, ticker)
	err := c.do(ctx, http.MethodGet, path, nil, &txs)
	return txs, err
}

// UpdateTransaction updates the mutable fields of a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, asset Asset, id int64, update TransactionUpdate) (Transaction, error) {
	var updated Transaction
	path := fmt.Sprintf("%s%d/", assetEndpoints[asset].detail, id)
	err := c.do(ctx, http.MethodPut, path, update, &updated)
	return updated, err
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, asset Asset, id int64) error {
	path := fmt.Sprintf("%s%d/", assetEndpoints[asset].detail, id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Summary returns the backend's per-ticker aggregation for the asset class.
func (c *Client) Summary(ctx context.Context, asset Asset) ([]SummaryRow, error) {
	var rows []SummaryRow
	err := c.do(ctx, http.MethodGet, assetEndpoints[asset].summary, nil, &rows)
	if rows == nil {
		rows = []SummaryRow{}
	}
	return rows, err
}

// CreateAlert registers a price alert with the backend.
func (c *Client) CreateAlert(ctx context.Context, alert NewAlert) error {
	return c.do(ctx, http.MethodPost, "/api/alerts/", alert, nil)
}

// do executes one request. A non-nil body is sent as JSON; a non-nil out has
// the response decoded into it. Responses that fail to decode are rejected,
// never coerced. A 401 purges the session before returning ErrUnauthorized.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Access(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			log.Printf("failed to clear session after 401: %v", err)
		}
		return apperrors.ErrUnauthorized
	}
	if resp.StatusCode == http.StatusNotFound {
		return apperrors.ErrTransactionNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("malformed backend response: %w", err)
		}
	}

	return nil
}

// errorDetail extracts the server-provided message from an error body. The
// backend uses "detail" for most errors; field-keyed validation bodies are
// flattened to their first message.
func errorDetail(data []byte) string {
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if detail, ok := body["detail"].(string); ok {
		return detail
	}
	for _, v := range body {
		switch msg := v.(type) {
		case string:
			return msg
		case []interface{}:
			if len(msg) > 0 {
				if s, ok := msg[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}
