// Package portfolio computes the cross-asset portfolio overview: per-class
// values from the backend's summary rows and the portfolio-wide total.
package portfolio

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/refresh"
)

// SummaryFetcher supplies the backend's per-ticker summaries for one asset
// class. *backend.Client satisfies it.
type SummaryFetcher interface {
	Summary(ctx context.Context, asset backend.Asset) ([]backend.SummaryRow, error)
}

// Stats is the aggregated portfolio overview. Values are expressed in the
// base currency; formatting into the display currency happens at the edge.
type Stats struct {
	CryptoTickers  int             `json:"totalCryptos"`
	StockTickers   int             `json:"totalStocks"`
	CryptoValue    decimal.Decimal `json:"cryptoValue"`
	StockValue     decimal.Decimal `json:"stockValue"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
}

// ClassValue sums total_units × average_price across summary rows. An empty
// list yields zero.
func ClassValue(rows []backend.SummaryRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalUnits.Mul(row.AveragePrice))
	}
	return total
}

// Aggregator holds the latest summary rows per asset class and derives Stats
// from them. It is always a full recompute from the latest fetch; rows are
// never mutated in place.
type Aggregator struct {
	fetcher SummaryFetcher
	hub     *refresh.Hub

	mu     sync.RWMutex
	crypto []backend.SummaryRow
	stock  []backend.SummaryRow
}

// New creates an aggregator. Both dependencies are mandatory.
func New(fetcher SummaryFetcher, hub *refresh.Hub) *Aggregator {
	return &Aggregator{fetcher: fetcher, hub: hub}
}

// Load fetches both classes in parallel. Called on startup and whenever a
// caller wants a guaranteed-fresh overview.
func (a *Aggregator) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	var crypto, stock []backend.SummaryRow

	g.Go(func() error {
		rows, err := a.fetcher.Summary(ctx, backend.AssetCrypto)
		if err != nil {
			return err
		}
		crypto = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.fetcher.Summary(ctx, backend.AssetStock)
		if err != nil {
			return err
		}
		stock = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.mu.Lock()
	a.crypto = crypto
	a.stock = stock
	a.mu.Unlock()
	return nil
}

// Refresh refetches the summary of a single domain, leaving the other
// domain's rows untouched.
func (a *Aggregator) Refresh(ctx context.Context, domain refresh.Domain) error {
	asset := backend.AssetCrypto
	if domain == refresh.Stock {
		asset = backend.AssetStock
	}

	rows, err := a.fetcher.Summary(ctx, asset)
	if err != nil {
		return err
	}

	a.mu.Lock()
	if domain == refresh.Stock {
		a.stock = rows
	} else {
		a.crypto = rows
	}
	a.mu.Unlock()
	return nil
}

// Stats derives the overview from the currently held rows.
func (a *Aggregator) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	cryptoValue := ClassValue(a.crypto)
	stockValue := ClassValue(a.stock)

	return Stats{
		CryptoTickers:  len(a.crypto),
		StockTickers:   len(a.stock),
		CryptoValue:    cryptoValue,
		StockValue:     stockValue,
		PortfolioValue: cryptoValue.Add(stockValue),
	}
}

// Rows returns the held summary rows for one domain.
func (a *Aggregator) Rows(domain refresh.Domain) []backend.SummaryRow {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if domain == refresh.Stock {
		return append([]backend.SummaryRow(nil), a.stock...)
	}
	return append([]backend.SummaryRow(nil), a.crypto...)
}

// Watch subscribes to both refresh domains and refetches the affected class
// whenever its trigger fires. A trigger on one domain never refetches the
// other. Watch blocks until ctx is done.
func (a *Aggregator) Watch(ctx context.Context) {
	cryptoCh, unsubCrypto := a.hub.Subscribe(refresh.Crypto)
	defer unsubCrypto()
	stockCh, unsubStock := a.hub.Subscribe(refresh.Stock)
	defer unsubStock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cryptoCh:
			if err := a.Refresh(ctx, refresh.Crypto); err != nil {
				log.Printf("crypto summary refresh failed: %v", err)
			}
		case <-stockCh:
			if err := a.Refresh(ctx, refresh.Stock); err != nil {
				log.Printf("stock summary refresh failed: %v", err)
			}
		}
	}
}
