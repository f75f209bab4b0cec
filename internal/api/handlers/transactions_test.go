package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/refresh"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/testutil"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/transactions"
)

func setupTransactionHandler(t *testing.T, asset backend.Asset) (*TransactionHandler, *testutil.MockBackend) {
	t.Helper()
	mock := testutil.NewMockBackend(t)
	client := testutil.NewBackendClient(t, mock)
	service := transactions.NewService(client, refresh.NewHub(), asset)
	return NewTransactionHandler(service), mock
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t, backend.AssetCrypto)

		req := httptest.NewRequest(http.MethodGet, "/api/crypto/transactions", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []backend.Transaction
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil {
			t.Error("Expected non-nil array, got nil")
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d transactions", len(response))
		}
	})

	t.Run("returns all transactions successfully", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetStock)
		mock.Seed(backend.AssetStock, testutil.NewTransaction("AAPL", "10", "150"))
		mock.Seed(backend.AssetStock, testutil.NewTransaction("MSFT", "5", "400"))

		req := httptest.NewRequest(http.MethodGet, "/api/stocks/transactions", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []backend.Transaction
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(response))
		}
	})
}

func TestTransactionHandler_Create(t *testing.T) {
	t.Run("creates transaction with normalized ticker", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetCrypto)

		body := map[string]interface{}{
			"ticker":           "eth",
			"units":            "2.5",
			"price_per_unit":   "2000",
			"transaction_type": "BUY",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/crypto/transactions", body)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response backend.Transaction
		json.NewDecoder(w.Body).Decode(&response)

		if response.Ticker != "ETH" {
			t.Errorf("Expected ticker ETH, got %q", response.Ticker)
		}
		if mock.CreateCalls != 1 {
			t.Errorf("Expected 1 create call, got %d", mock.CreateCalls)
		}
	})

	t.Run("returns 400 for validation failure", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetStock)

		body := map[string]interface{}{
			"ticker":           "AAPL",
			"units":            "-1",
			"price_per_unit":   "150",
			"transaction_type": "BUY",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/stocks/transactions", body)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if mock.CreateCalls != 0 {
			t.Errorf("Expected no create calls, got %d", mock.CreateCalls)
		}
	})

	t.Run("returns 400 for malformed body", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t, backend.AssetStock)

		req := httptest.NewRequest(http.MethodPost, "/api/stocks/transactions", nil)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_Update(t *testing.T) {
	t.Run("updates transaction successfully", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetStock)
		seeded := mock.Seed(backend.AssetStock, testutil.NewTransaction("AAPL", "10", "150"))

		body := map[string]interface{}{"units": "12", "price_per_unit": "155"}
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/stocks/transactions/1", body)
		req = testutil.WithURLParams(req, map[string]string{"id": "1"})
		w := httptest.NewRecorder()

		handler.Update(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response backend.Transaction
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID != seeded.ID {
			t.Errorf("Expected ID %d, got %d", seeded.ID, response.ID)
		}
		if response.Units.String() != "12" {
			t.Errorf("Expected units 12, got %s", response.Units)
		}
	})

	t.Run("returns 404 for missing transaction", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t, backend.AssetCrypto)

		body := map[string]interface{}{"units": "1", "price_per_unit": "1"}
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/crypto/transactions/9999", body)
		req = testutil.WithURLParams(req, map[string]string{"id": "9999"})
		w := httptest.NewRecorder()

		handler.Update(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for non-numeric id", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t, backend.AssetCrypto)

		body := map[string]interface{}{"units": "1", "price_per_unit": "1"}
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/crypto/transactions/abc", body)
		req = testutil.WithURLParams(req, map[string]string{"id": "abc"})
		w := httptest.NewRecorder()

		handler.Update(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	t.Run("rejects delete without confirmation", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetCrypto)
		mock.Seed(backend.AssetCrypto, testutil.NewTransaction("BTC", "1", "30000"))

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/crypto/transactions/1", map[string]string{"id": "1"})
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if mock.DeleteCalls != 0 {
			t.Errorf("Expected no delete calls, got %d", mock.DeleteCalls)
		}
	})

	t.Run("deletes with confirm=true", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetStock)
		mock.Seed(backend.AssetStock, testutil.NewTransaction("AAPL", "10", "150"))

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/stocks/transactions/1?confirm=true", map[string]string{"id": "1"})
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		if mock.DeleteCalls != 1 {
			t.Errorf("Expected 1 delete call, got %d", mock.DeleteCalls)
		}
	})

	t.Run("confirm with other value still rejects", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetStock)
		mock.Seed(backend.AssetStock, testutil.NewTransaction("AAPL", "10", "150"))

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/stocks/transactions/1?confirm=yes", map[string]string{"id": "1"})
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if mock.DeleteCalls != 0 {
			t.Errorf("Expected no delete calls, got %d", mock.DeleteCalls)
		}
	})
}

func TestTransactionHandler_Summary(t *testing.T) {
	t.Run("returns summary rows", func(t *testing.T) {
		handler, mock := setupTransactionHandler(t, backend.AssetStock)
		mock.Seed(backend.AssetStock, testutil.NewTransaction("AAPL", "10", "150"))

		req := httptest.NewRequest(http.MethodGet, "/api/stocks/summary", nil)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []backend.SummaryRow
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 || response[0].Ticker != "AAPL" {
			t.Errorf("Expected one AAPL row, got %+v", response)
		}
	})

	t.Run("returns empty array for empty portfolio", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t, backend.AssetCrypto)

		req := httptest.NewRequest(http.MethodGet, "/api/crypto/summary", nil)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []backend.SummaryRow
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil || len(response) != 0 {
			t.Errorf("Expected empty non-nil array, got %v", response)
		}
	})
}
