package money

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/rates"
	"github.com/shopspring/decimal"
)

func TestConvert(t *testing.T) {
	base := decimal.NewFromInt(250)
	rate := decimal.RequireFromString("0.92")

	got := Convert(base, rate)

	want := decimal.RequireFromString("271.7391304348")
	if !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestConvert_ZeroRate(t *testing.T) {
	got := Convert(decimal.NewFromInt(100), decimal.Zero)
	if !got.IsZero() {
		t.Errorf("Expected zero for zero rate, got %s", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   string
		opts   []Options
		want   string
	}{
		{name: "rounds to two decimals", amount: "271.7391304348", code: "USD", want: "$271.74"},
		{name: "pads to two decimals", amount: "250", code: "USD", want: "$250.00"},
		{name: "thousands separator", amount: "1234567.891", code: "USD", want: "$1,234,567.89"},
		{name: "half rounds away from zero", amount: "0.005", code: "USD", want: "$0.01"},
		{name: "negative amount", amount: "-12.5", code: "USD", want: "-$12.50"},
		{
			name:   "max digits override",
			amount: "0.0123456",
			code:   "USD",
			opts:   []Options{{MinFractionDigits: 2, MaxFractionDigits: 4}},
			want:   "$0.0123",
		},
		{
			name:   "trailing zeros trimmed to min",
			amount: "5.10",
			code:   "USD",
			opts:   []Options{{MinFractionDigits: 2, MaxFractionDigits: 6}},
			want:   "$5.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(decimal.RequireFromString(tt.amount), tt.code, tt.opts...)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestService_FormatBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]float64{"exchange_rate": 0.92})
	}))
	t.Cleanup(srv.Close)

	store := rates.NewStore(srv.URL, 5*time.Second)
	if _, err := store.Select(context.Background(), "USD"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	svc := NewService(store)

	// 250 EUR at 0.92 EUR per USD is 271.74 USD.
	if got := svc.FormatBase(decimal.NewFromInt(250)); got != "$271.74" {
		t.Errorf("Expected $271.74, got %q", got)
	}
}

func TestService_FormatBaseReflectsLatestSelection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]float64{"exchange_rate": 0.92})
	}))
	t.Cleanup(srv.Close)

	store := rates.NewStore(srv.URL, 5*time.Second)
	svc := NewService(store)

	if _, err := store.Select(context.Background(), "USD"); err != nil {
		t.Fatalf("Select USD failed: %v", err)
	}
	if got := svc.FormatBase(decimal.NewFromInt(92)); got != "$100.00" {
		t.Errorf("Expected $100.00, got %q", got)
	}

	// Switch back to the base currency: formatting must follow immediately.
	if _, err := store.Select(context.Background(), "EUR"); err != nil {
		t.Fatalf("Select EUR failed: %v", err)
	}
	got := svc.FormatBase(decimal.NewFromInt(92))
	if got == "$100.00" {
		t.Errorf("Formatting still uses the superseded USD rate: %q", got)
	}
}

func TestService_FormatBaseString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	svc := NewService(rates.NewStore(srv.URL, time.Second))

	if got := svc.FormatBaseString(""); got != "" {
		t.Errorf("Expected empty string for empty input, got %q", got)
	}
	if got := svc.FormatBaseString("not-a-number"); got != "" {
		t.Errorf("Expected empty string for non-numeric input, got %q", got)
	}
	if got := svc.FormatBaseString("10"); got == "" {
		t.Error("Expected formatted value for numeric input")
	}
}
