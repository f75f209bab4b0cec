// Package money converts monetary values from the base currency into the
// currently selected display currency and renders them as symbol-prefixed,
// locale-formatted strings.
package money

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/rates"
	"github.com/shopspring/decimal"
)

// Options controls the number of fraction digits in formatted output. Zero
// values mean the default of 2.
type Options struct {
	MinFractionDigits int
	MaxFractionDigits int
}

func (o Options) normalized() (min, max int) {
	min, max = 2, 2
	if o.MinFractionDigits > 0 {
		min = o.MinFractionDigits
	}
	if o.MaxFractionDigits > 0 {
		max = o.MaxFractionDigits
	}
	if max < min {
		max = min
	}
	return min, max
}

// Convert converts an amount expressed in the base currency using the given
// rate. Division, not multiplication: a rate is the base-currency value of
// one unit of the target currency.
func Convert(base decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return base.DivRound(rate, 10)
}

// Service formats base-currency amounts in the currently selected currency.
// Every call reads a fresh rate snapshot, so output never reflects a
// superseded currency selection.
type Service struct {
	rates *rates.Store
}

// NewService creates a formatting service bound to the rate store.
func NewService(store *rates.Store) *Service {
	return &Service{rates: store}
}

// FormatBase converts a base-currency amount at the current rate and formats
// it in the selected currency.
func (s *Service) FormatBase(base decimal.Decimal, opts ...Options) string {
	state := s.rates.Snapshot()
	converted := Convert(base, state.Rate)
	return Format(converted, state.Currency, opts...)
}

// FormatBaseString is FormatBase for loosely-typed input: an empty or
// non-numeric string yields "", not an error.
func (s *Service) FormatBaseString(base string, opts ...Options) string {
	if strings.TrimSpace(base) == "" {
		return ""
	}
	d, err := decimal.NewFromString(base)
	if err != nil {
		return ""
	}
	return s.FormatBase(d, opts...)
}

// Format renders an amount already expressed in the given currency. The
// symbol, decimal mark and thousands separator come from the currency
// definition; rounding is half away from zero at the maximum fraction digits,
// and trailing zeros beyond the minimum are trimmed.
func Format(amount decimal.Decimal, code string, opts ...Options) string {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	min, max := o.normalized()

	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(money.EUR)
	}

	rounded := amount.Round(int32(max))
	digits := fractionDigits(rounded, min, max)

	// go-money formats integer minor units; shift into them at the chosen
	// precision and reuse the currency's separators and template.
	formatter := money.NewFormatter(digits, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return formatter.Format(rounded.Shift(int32(digits)).IntPart())
}

// fractionDigits picks the effective precision: max, trimmed of trailing
// zeros down to min.
func fractionDigits(amount decimal.Decimal, min, max int) int {
	digits := max
	for digits > min && amount.Round(int32(digits-1)).Equal(amount) {
		digits--
	}
	return digits
}
