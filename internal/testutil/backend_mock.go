package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
)

// MockBackend is an in-memory stand-in for the backend of record. It speaks
// the same endpoint families as the real backend and recomputes summaries
// from the stored transactions on every request.
//
// Call counters allow tests to assert how often each collaborator endpoint
// was hit (e.g. "the other domain's summary was not refetched").
type MockBackend struct {
	Server *httptest.Server

	// RequireToken, when non-empty, makes every transaction endpoint demand
	// this bearer token and answer 401 otherwise.
	RequireToken string

	// ForceStatus, when non-zero, short-circuits every request with this
	// status and ForceBody as the response body.
	ForceStatus int
	ForceBody   string

	mu           sync.Mutex
	nextID       int64
	transactions map[backend.Asset][]backend.Transaction
	alerts       []backend.NewAlert

	SummaryCalls map[backend.Asset]int
	DeleteCalls  int
	CreateCalls  int
	UpdateCalls  int
}

// NewMockBackend starts a mock backend. The server is closed with the test.
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()

	m := &MockBackend{
		nextID:       1,
		transactions: map[backend.Asset][]backend.Transaction{},
		SummaryCalls: map[backend.Asset]int{},
	}

	r := chi.NewRouter()
	r.Use(m.intercept)

	r.Post("/api/token/", m.token)
	r.Post("/api/user/register/", m.register)
	r.Post("/api/alerts/", m.createAlert)

	// Stock family
	r.Post("/api/transactions/", m.create(backend.AssetStock))
	r.Get("/api/transactions/all/", m.list(backend.AssetStock))
	r.Get("/api/transactions/summary/", m.summary(backend.AssetStock))
	r.Get("/api/transactions/stock/{ticker}/", m.byTicker(backend.AssetStock))
	r.Put("/api/transactions/{id}/", m.update(backend.AssetStock))
	r.Delete("/api/transactions/{id}/", m.remove(backend.AssetStock))

	// Crypto family
	r.Post("/api/transactions/crypto", m.create(backend.AssetCrypto))
	r.Get("/api/crypto/all/", m.list(backend.AssetCrypto))
	r.Get("/api/crypto/summary/", m.summary(backend.AssetCrypto))
	r.Get("/api/transactions/crypto/{id}/", m.byIDOrTicker(backend.AssetCrypto))
	r.Put("/api/transactions/crypto/{id}/", m.update(backend.AssetCrypto))
	r.Delete("/api/transactions/crypto/{id}/", m.remove(backend.AssetCrypto))

	m.Server = httptest.NewServer(r)
	t.Cleanup(m.Server.Close)

	return m
}

// URL returns the mock backend's base URL.
func (m *MockBackend) URL() string { return m.Server.URL }

func (m *MockBackend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.ForceStatus != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(m.ForceStatus)
			//nolint:errcheck
			w.Write([]byte(m.ForceBody))
			return
		}
		if m.RequireToken != "" && !strings.HasPrefix(r.URL.Path, "/api/token") {
			if r.Header.Get("Authorization") != "Bearer "+m.RequireToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *MockBackend) token(w http.ResponseWriter, r *http.Request) {
	var creds backend.Credentials
	//nolint:errcheck
	json.NewDecoder(r.Body).Decode(&creds)
	if creds.Password == "wrong" {
		w.WriteHeader(http.StatusUnauthorized)
		//nolint:errcheck
		w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
		return
	}
	writeJSON(w, http.StatusOK, backend.TokenPair{Access: "test-access", Refresh: "test-refresh"})
}

func (m *MockBackend) register(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

func (m *MockBackend) createAlert(w http.ResponseWriter, r *http.Request) {
	var alert backend.NewAlert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()
	writeJSON(w, http.StatusCreated, alert)
}

// Alerts returns the alerts registered so far.
func (m *MockBackend) Alerts() []backend.NewAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backend.NewAlert(nil), m.alerts...)
}

// Transactions returns the stored transactions of one asset class.
func (m *MockBackend) Transactions(asset backend.Asset) []backend.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backend.Transaction(nil), m.transactions[asset]...)
}

// Seed inserts a transaction directly, bypassing the HTTP surface.
func (m *MockBackend) Seed(asset backend.Asset, tx backend.Transaction) backend.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.ID == 0 {
		tx.ID = m.nextID
		m.nextID++
	}
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = time.Now().UTC()
	}
	m.transactions[asset] = append(m.transactions[asset], tx)
	return tx
}

func (m *MockBackend) create(asset backend.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backend.NewTransaction
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		m.CreateCalls++
		tx := backend.Transaction{
			ID:              m.nextID,
			Ticker:          req.Ticker,
			Units:           req.Units,
			PricePerUnit:    req.PricePerUnit,
			TransactionType: req.TransactionType,
			TransactionDate: time.Now().UTC(),
		}
		m.nextID++
		m.transactions[asset] = append(m.transactions[asset], tx)
		m.mu.Unlock()
		writeJSON(w, http.StatusCreated, tx)
	}
}

func (m *MockBackend) list(asset backend.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		m.mu.Lock()
		txs := append([]backend.Transaction(nil), m.transactions[asset]...)
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, txs)
	}
}

func (m *MockBackend) byTicker(asset backend.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticker := chi.URLParam(r, "ticker")
		m.mu.Lock()
		matched := []backend.Transaction{}
		for _, tx := range m.transactions[asset] {
			if tx.Ticker == ticker {
				matched = append(matched, tx)
			}
		}
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, matched)
	}
}

// byIDOrTicker disambiguates the crypto family, where the detail and
// per-ticker routes share a path shape.
func (m *MockBackend) byIDOrTicker(asset backend.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		param := chi.URLParam(r, "id")
		if _, err := strconv.ParseInt(param, 10, 64); err != nil {
			r = requestWithParam(r, "ticker", param)
			m.byTicker(asset)(w, r)
			return
		}
		// GET by ID is unused by the gateway; answer with the ticker list shape.
		m.list(asset)(w, r)
	}
}

func (m *MockBackend) update(asset backend.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req backend.TransactionUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.UpdateCalls++
		for i, tx := range m.transactions[asset] {
			if tx.ID == id {
				tx.Units = req.Units
				tx.PricePerUnit = req.PricePerUnit
				m.transactions[asset][i] = tx
				writeJSON(w, http.StatusOK, tx)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockBackend) remove(asset backend.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.DeleteCalls++
		for i, tx := range m.transactions[asset] {
			if tx.ID == id {
				m.transactions[asset] = append(m.transactions[asset][:i], m.transactions[asset][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockBackend) summary(asset backend.Asset) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		m.mu.Lock()
		m.SummaryCalls[asset]++
		rows := summarize(m.transactions[asset])
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, rows)
	}
}

// summarize recomputes per-ticker rows the way the backend of record does:
// signed unit totals, cost-basis average over buys.
func summarize(txs []backend.Transaction) []backend.SummaryRow {
	type acc struct {
		units     decimal.Decimal
		buyUnits  decimal.Decimal
		buyCost   decimal.Decimal
		firstSeen int
	}
	accs := map[string]*acc{}
	order := []string{}

	for i, tx := range txs {
		a, ok := accs[tx.Ticker]
		if !ok {
			a = &acc{firstSeen: i}
			accs[tx.Ticker] = a
			order = append(order, tx.Ticker)
		}
		if tx.TransactionType == "BUY" {
			a.units = a.units.Add(tx.Units)
			a.buyUnits = a.buyUnits.Add(tx.Units)
			a.buyCost = a.buyCost.Add(tx.Units.Mul(tx.PricePerUnit))
		} else {
			a.units = a.units.Sub(tx.Units)
		}
	}

	rows := []backend.SummaryRow{}
	for _, ticker := range order {
		a := accs[ticker]
		avg := decimal.Zero
		if a.buyUnits.IsPositive() {
			avg = a.buyCost.DivRound(a.buyUnits, 10)
		}
		rows = append(rows, backend.SummaryRow{
			Ticker:       ticker,
			TotalUnits:   a.units,
			AveragePrice: avg,
		})
	}
	return rows
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(data)
}

func requestWithParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	rctx.URLParams.Add(key, value)
	return r
}
