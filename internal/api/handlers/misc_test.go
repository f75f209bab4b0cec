package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/news"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/tax"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/testutil"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/version"
)

func TestNewsHandler_Fetch(t *testing.T) {
	t.Run("forwards filters and returns articles", func(t *testing.T) {
		var gotTickers, gotTopics string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotTickers = r.URL.Query().Get("tickers")
			gotTopics = r.URL.Query().Get("topics")
			w.Write([]byte(`{"feed": [{"title": "Markets rally", "url": "https://example.com/a"}]}`))
		}))
		t.Cleanup(server.Close)

		handler := NewNewsHandler(news.NewClient(server.URL, "key"))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/news", map[string]string{
			"tickers": "AAPL",
			"topics":  "technology",
		})
		w := httptest.NewRecorder()

		handler.Fetch(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotTickers != "AAPL" || gotTopics != "technology" {
			t.Errorf("Expected filters forwarded, got tickers=%q topics=%q", gotTickers, gotTopics)
		}

		var response []news.Article
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 || response[0].Title != "Markets rally" {
			t.Errorf("Expected one article, got %+v", response)
		}
	})

	t.Run("returns 500 when provider fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(server.Close)

		handler := NewNewsHandler(news.NewClient(server.URL, "key"))

		req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
		w := httptest.NewRecorder()

		handler.Fetch(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTaxHandler_Calculate(t *testing.T) {
	t.Run("returns calculated amount", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"body": {"tax_amount": 750.25}}`))
		}))
		t.Cleanup(server.Close)

		handler := NewTaxHandler(tax.NewClient(server.URL))

		body := map[string]interface{}{"amount": "5000", "is_long_term": true}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/tax", body)
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response TaxResponse
		json.NewDecoder(w.Body).Decode(&response)

		if response.TaxAmount.String() != "750.25" {
			t.Errorf("Expected 750.25, got %s", response.TaxAmount)
		}
	})

	t.Run("returns 400 for non-positive amount", func(t *testing.T) {
		handler := NewTaxHandler(tax.NewClient("http://unused.invalid"))

		body := map[string]interface{}{"amount": "0", "is_long_term": false}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/tax", body)
		w := httptest.NewRecorder()

		handler.Calculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("reports absent session", func(t *testing.T) {
		handler := NewSystemHandler(testutil.NewSessionStore(t))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response HealthResponse
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "healthy" || response.Session != "absent" {
			t.Errorf("Expected healthy/absent, got %+v", response)
		}
	})

	t.Run("reports active session", func(t *testing.T) {
		handler := NewSystemHandler(testutil.NewActiveSessionStore(t, "access"))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		var response HealthResponse
		json.NewDecoder(w.Body).Decode(&response)

		if response.Session != "active" {
			t.Errorf("Expected active session, got %q", response.Session)
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	handler := NewSystemHandler(testutil.NewSessionStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
	w := httptest.NewRecorder()

	handler.Version(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response VersionResponse
	json.NewDecoder(w.Body).Decode(&response)

	if response.AppVersion != version.Version {
		t.Errorf("Expected version %q, got %q", version.Version, response.AppVersion)
	}
}
