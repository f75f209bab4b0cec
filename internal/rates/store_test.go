package rates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/shopspring/decimal"
)

func rateServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestStore_SelectLiveRate(t *testing.T) {
	var requested string
	srv := rateServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(r.Body).Decode(&req)
		requested = req["currency"]
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]float64{"exchange_rate": 0.92})
	})

	store := NewStore(srv.URL, 5*time.Second)

	state, err := store.Select(context.Background(), "USD")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if requested != "USD" {
		t.Errorf("Expected currency USD in request, got %q", requested)
	}
	if !state.Rate.Equal(decimal.RequireFromString("0.92")) {
		t.Errorf("Expected rate 0.92, got %s", state.Rate)
	}
	if state.UsingDefault {
		t.Error("Expected live rate, got default flag")
	}
	if state.Symbol != "$" {
		t.Errorf("Expected symbol $, got %q", state.Symbol)
	}
}

func TestStore_SelectBaseCurrencySkipsNetwork(t *testing.T) {
	calls := 0
	srv := rateServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]float64{"exchange_rate": 0.5})
	})

	store := NewStore(srv.URL, 5*time.Second)

	state, err := store.Select(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if calls != 0 {
		t.Errorf("Expected no network call for base currency, got %d", calls)
	}
	if !state.Rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected rate 1, got %s", state.Rate)
	}
	if state.UsingDefault {
		t.Error("Base currency must not set the default flag")
	}
}

func TestStore_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "missing rate field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				//nolint:errcheck
				w.Write([]byte(`{"status": "ok"}`))
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				//nolint:errcheck
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "non-positive rate",
			handler: func(w http.ResponseWriter, r *http.Request) {
				//nolint:errcheck
				w.Write([]byte(`{"exchange_rate": 0}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := rateServer(t, tt.handler)
			store := NewStore(srv.URL, 5*time.Second)

			state, err := store.Select(context.Background(), "GBP")
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}

			if !state.UsingDefault {
				t.Error("Expected default-rate flag to be set")
			}
			if !state.Rate.Equal(decimal.RequireFromString("1.17")) {
				t.Errorf("Expected default GBP rate 1.17, got %s", state.Rate)
			}
			if state.Error == "" {
				t.Error("Expected soft error to be recorded")
			}
		})
	}
}

func TestStore_FallbackOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	store := NewStore(srv.URL, time.Second)

	state, err := store.Select(context.Background(), "INR")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if !state.UsingDefault {
		t.Error("Expected default-rate flag on network error")
	}
	if !state.Rate.Equal(decimal.RequireFromString("0.011")) {
		t.Errorf("Expected default INR rate, got %s", state.Rate)
	}
}

func TestStore_UnknownCurrencyRejected(t *testing.T) {
	store := NewStore("http://unused", time.Second)

	_, err := store.Select(context.Background(), "XYZ")
	if err == nil {
		t.Fatal("Expected error for unknown currency")
	}
	if !strings.Contains(err.Error(), apperrors.ErrUnknownCurrency.Error()) {
		t.Errorf("Expected unknown currency error, got %v", err)
	}
}

func TestStore_StaleResolutionDiscarded(t *testing.T) {
	// The first selection's response is held back until a newer selection has
	// completed. The stale result must not overwrite the newer one.
	block := make(chan struct{})
	arrived := make(chan struct{})
	srv := rateServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		//nolint:errcheck
		json.NewDecoder(r.Body).Decode(&req)
		if req["currency"] == "USD" {
			close(arrived)
			<-block
			//nolint:errcheck
			json.NewEncoder(w).Encode(map[string]float64{"exchange_rate": 0.90})
			return
		}
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]float64{"exchange_rate": 1.20})
	})

	store := NewStore(srv.URL, 5*time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		//nolint:errcheck // the stale selection's return value is irrelevant
		store.Select(context.Background(), "USD")
	}()

	<-arrived
	if _, err := store.Select(context.Background(), "GBP"); err != nil {
		t.Fatalf("Select GBP failed: %v", err)
	}

	close(block)
	<-done

	state := store.Snapshot()
	if state.Currency != "GBP" {
		t.Errorf("Expected latest selection GBP to win, got %s", state.Currency)
	}
	if !state.Rate.Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("Expected GBP live rate 1.2, got %s", state.Rate)
	}
}
