package backend_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/testutil"
)

func TestClient_Login(t *testing.T) {
	t.Run("stores tokens on success", func(t *testing.T) {
		mock := testutil.NewMockBackend(t)
		sess := testutil.NewSessionStore(t)
		client := backend.NewClient(mock.URL(), 5*time.Second, sess)

		err := client.Login(context.Background(), backend.Credentials{Username: "u", Password: "p"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if sess.Access() != "test-access" {
			t.Errorf("Expected access token stored, got %q", sess.Access())
		}
	})

	t.Run("bad credentials leave no session", func(t *testing.T) {
		mock := testutil.NewMockBackend(t)
		sess := testutil.NewSessionStore(t)
		client := backend.NewClient(mock.URL(), 5*time.Second, sess)

		err := client.Login(context.Background(), backend.Credentials{Username: "u", Password: "wrong"})
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Fatalf("Expected ErrUnauthorized, got %v", err)
		}
		if sess.Active() {
			t.Error("Expected no session after failed login")
		}
	})
}

func TestClient_AttachesBearerToken(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	mock.RequireToken = "test-access"

	client := testutil.NewBackendClient(t, mock)

	_, err := client.ListTransactions(context.Background(), backend.AssetCrypto)
	if err != nil {
		t.Fatalf("Expected authorized request to succeed, got %v", err)
	}
}

func TestClient_PurgesSessionOn401(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	mock.RequireToken = "a-different-token"

	sess := testutil.NewActiveSessionStore(t, "stale-access")
	client := backend.NewClient(mock.URL(), 5*time.Second, sess)

	_, err := client.ListTransactions(context.Background(), backend.AssetStock)
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if sess.Active() {
		t.Error("Expected session to be purged after 401")
	}
}

func TestClient_TransactionLifecycle(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	client := testutil.NewBackendClient(t, mock)
	ctx := context.Background()

	created, err := client.CreateTransaction(ctx, backend.AssetCrypto, backend.NewTransaction{
		Ticker:          "BTC",
		Units:           decimal.NewFromInt(2),
		PricePerUnit:    decimal.NewFromInt(100),
		TransactionType: "BUY",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Expected server-assigned ID")
	}
	if created.TransactionDate.IsZero() {
		t.Error("Expected server-assigned date")
	}

	txs, err := client.ListTransactions(ctx, backend.AssetCrypto)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 1 || txs[0].Ticker != "BTC" {
		t.Fatalf("Expected one BTC transaction, got %+v", txs)
	}

	updated, err := client.UpdateTransaction(ctx, backend.AssetCrypto, created.ID, backend.TransactionUpdate{
		Units:        decimal.NewFromInt(3),
		PricePerUnit: decimal.NewFromInt(110),
	})
	if err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	if !updated.Units.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected updated units 3, got %s", updated.Units)
	}
	if updated.Ticker != "BTC" {
		t.Errorf("Ticker must be immutable, got %q", updated.Ticker)
	}

	if err := client.DeleteTransaction(ctx, backend.AssetCrypto, created.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	txs, err = client.ListTransactions(ctx, backend.AssetCrypto)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("Expected no transactions after delete, got %d", len(txs))
	}
}

func TestClient_UpdateMissingTransaction(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	client := testutil.NewBackendClient(t, mock)

	_, err := client.UpdateTransaction(context.Background(), backend.AssetStock, 999, backend.TransactionUpdate{
		Units:        decimal.NewFromInt(1),
		PricePerUnit: decimal.NewFromInt(1),
	})
	if !errors.Is(err, apperrors.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestClient_ListByTicker(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	client := testutil.NewBackendClient(t, mock)

	mock.Seed(backend.AssetCrypto, testutil.NewTransaction("BTC", "2", "100"))
	mock.Seed(backend.AssetCrypto, testutil.NewTransaction("ETH", "1", "50"))
	mock.Seed(backend.AssetCrypto, testutil.NewTransaction("BTC", "1", "120"))

	txs, err := client.ListTransactionsByTicker(context.Background(), backend.AssetCrypto, "BTC")
	if err != nil {
		t.Fatalf("ListTransactionsByTicker failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("Expected 2 BTC transactions, got %d", len(txs))
	}
	for _, tx := range txs {
		if tx.Ticker != "BTC" {
			t.Errorf("Expected only BTC transactions, got %q", tx.Ticker)
		}
	}
}

func TestClient_Summary(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	client := testutil.NewBackendClient(t, mock)

	buy := testutil.NewTransaction("BTC", "3", "100")
	mock.Seed(backend.AssetCrypto, buy)
	sell := testutil.NewTransaction("BTC", "1", "150")
	sell.TransactionType = "SELL"
	mock.Seed(backend.AssetCrypto, sell)

	rows, err := client.Summary(context.Background(), backend.AssetCrypto)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 summary row, got %d", len(rows))
	}
	if !rows[0].TotalUnits.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected signed unit total 2, got %s", rows[0].TotalUnits)
	}
	if !rows[0].AveragePrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected buy-only average 100, got %s", rows[0].AveragePrice)
	}
}

func TestClient_ServerErrorDetail(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	mock.ForceStatus = 400
	mock.ForceBody = `{"detail": "price_target must be positive"}`

	client := testutil.NewBackendClient(t, mock)

	err := client.CreateAlert(context.Background(), backend.NewAlert{
		AssetType: "CRYPTO", Ticker: "BTC",
		PriceTarget: decimal.NewFromInt(100), TriggerCondition: "ABOVE",
	})
	if err == nil {
		t.Fatal("Expected error")
	}

	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if apiErr.Detail != "price_target must be positive" {
		t.Errorf("Expected server detail to be preserved, got %q", apiErr.Detail)
	}
}

func TestClient_MalformedResponseRejected(t *testing.T) {
	mock := testutil.NewMockBackend(t)
	mock.ForceStatus = 200
	mock.ForceBody = `{"unexpected": `

	client := testutil.NewBackendClient(t, mock)

	_, err := client.ListTransactions(context.Background(), backend.AssetStock)
	if err == nil {
		t.Error("Expected malformed payload to be rejected")
	}
}
