// Package quotes provides live price lookups for the alert watcher.
// Stocks come from Alpha Vantage and cryptocurrencies from CoinMarketCap,
// each behind a shared Source interface so callers never care which
// provider answered.
package quotes

import (
	"context"

	"github.com/shopspring/decimal"
)

// Source fetches the current price for a ticker symbol.
type Source interface {
	Quote(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Fallback prices used when a provider cannot produce a usable quote.
// Alert evaluation keeps running on these rather than stalling a whole
// sweep on one bad response.
var (
	FallbackStockPrice  = decimal.RequireFromString("100.00")
	FallbackCryptoPrice = decimal.RequireFromString("30000.00")
)
