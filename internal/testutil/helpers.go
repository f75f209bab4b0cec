package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/session"
)

// NewSessionStore creates a session store in a test-scoped temp directory
// with a fresh fernet key.
func NewSessionStore(t *testing.T) *session.Store {
	t.Helper()

	key := new(fernet.Key)
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate session key: %v", err)
	}

	store, err := session.NewStore(filepath.Join(t.TempDir(), "session.tokens"), key.Encode())
	if err != nil {
		t.Fatalf("Failed to create session store: %v", err)
	}
	return store
}

// NewActiveSessionStore creates a session store that already holds tokens.
func NewActiveSessionStore(t *testing.T, access string) *session.Store {
	t.Helper()

	store := NewSessionStore(t)
	if err := store.Set(session.Tokens{Access: access, Refresh: "refresh"}); err != nil {
		t.Fatalf("Failed to set tokens: %v", err)
	}
	return store
}

// NewBackendClient creates a backend client pointed at the mock backend with
// an active session.
func NewBackendClient(t *testing.T, m *MockBackend) *backend.Client {
	t.Helper()
	return backend.NewClient(m.URL(), 5*time.Second, NewActiveSessionStore(t, "test-access"))
}

// NewTransaction builds a transaction with sensible defaults for seeding the
// mock backend.
func NewTransaction(ticker string, units, price string) backend.Transaction {
	return backend.Transaction{
		Ticker:          ticker,
		Units:           decimal.RequireFromString(units),
		PricePerUnit:    decimal.RequireFromString(price),
		TransactionType: "BUY",
	}
}

// NewSummaryRow builds a summary row from string literals.
func NewSummaryRow(ticker, totalUnits, averagePrice string) backend.SummaryRow {
	return backend.SummaryRow{
		Ticker:       ticker,
		TotalUnits:   decimal.RequireFromString(totalUnits),
		AveragePrice: decimal.RequireFromString(averagePrice),
	}
}
