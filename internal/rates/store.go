package rates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/shopspring/decimal"
)

// State is a snapshot of the currency selection shared by all currency-aware
// views.
type State struct {
	Currency     string          `json:"currency"`
	Symbol       string          `json:"symbol"`
	Rate         decimal.Decimal `json:"exchangeRate"`
	UsingDefault bool            `json:"usingDefaultRate"`
	Error        string          `json:"error,omitempty"`
}

// Store resolves and holds the exchange rate for the selected display
// currency. Selecting the base currency short-circuits to rate 1 with no
// network call; any resolver failure falls back to the static default rate
// for the currency and raises the UsingDefault flag.
//
// Concurrent selections are guarded by a generation counter: a resolution
// result is applied only while its selection is still the most recent one, so
// the last selection issued wins regardless of response ordering.
type Store struct {
	endpoint   string
	httpClient *http.Client

	mu    sync.RWMutex
	gen   uint64
	state State
}

// NewStore creates a rate store pointed at the conversion service endpoint.
// The initial state is the base currency at rate 1.
func NewStore(endpoint string, timeout time.Duration) *Store {
	base, _ := Lookup(BaseCurrency)
	return &Store{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		state: State{
			Currency: base.Code,
			Symbol:   base.Symbol,
			Rate:     decimal.NewFromInt(1),
		},
	}
}

// Snapshot returns the current selection state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Select switches the display currency and resolves its rate. Unknown codes
// are rejected up front. The call is synchronous; the returned state is what
// was applied, which may differ from the live quote when the resolver failed
// and the default rate was adopted.
func (s *Store) Select(ctx context.Context, code string) (State, error) {
	cur, ok := Lookup(code)
	if !ok {
		return State{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, code)
	}

	// Base currency never goes to the network.
	if cur.Code == BaseCurrency {
		s.mu.Lock()
		s.gen++
		s.state = State{Currency: cur.Code, Symbol: cur.Symbol, Rate: decimal.NewFromInt(1)}
		state := s.state
		s.mu.Unlock()
		return state, nil
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	state := State{Currency: cur.Code, Symbol: cur.Symbol}

	rate, err := s.fetchRate(ctx, cur.Code)
	if err != nil {
		log.Printf("exchange rate for %s unavailable, using default: %v", cur.Code, err)
		state.Rate = cur.DefaultRate
		state.UsingDefault = true
		state.Error = apperrors.ErrRateUnavailable.Error()
	} else {
		state.Rate = rate
	}

	if !s.apply(gen, state) {
		// A newer selection superseded this one; report its state instead.
		return s.Snapshot(), nil
	}
	return state, nil
}

// apply installs the state if gen is still the latest selection.
func (s *Store) apply(gen uint64, state State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.state = state
	return true
}

type rateRequest struct {
	Currency string `json:"currency"`
}

type rateResponse struct {
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
}

// fetchRate issues one request to the conversion service. It returns an error
// on any non-success status, missing rate field or non-positive rate; the
// caller decides the fallback. There is no automatic retry.
func (s *Store) fetchRate(ctx context.Context, code string) (decimal.Decimal, error) {
	body, err := json.Marshal(rateRequest{Currency: code})
	if err != nil {
		return decimal.Zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("conversion service returned %s", resp.Status)
	}

	var parsed rateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("malformed conversion response: %w", err)
	}
	if parsed.ExchangeRate == nil || !parsed.ExchangeRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("conversion response missing exchange_rate")
	}

	return *parsed.ExchangeRate, nil
}
