package alerts

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/notify"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/quotes"
)

// Watcher periodically evaluates pending alerts against live quotes and
// notifies on triggers. Scheduling is owned by the caller; Sweep runs one
// full evaluation pass.
type Watcher struct {
	registry *Registry
	stocks   quotes.Source
	cryptos  quotes.Source
	sender   notify.Sender
}

// NewWatcher creates an alert watcher.
//
// Parameters:
//   - registry: Source of pending alerts
//   - stocks: Quote source for STOCK alerts
//   - cryptos: Quote source for CRYPTO alerts
//   - sender: Notification channel for triggered alerts
//
// Returns:
//   - *Watcher: A new watcher ready for scheduling
func NewWatcher(registry *Registry, stocks, cryptos quotes.Source, sender notify.Sender) *Watcher {
	return &Watcher{registry: registry, stocks: stocks, cryptos: cryptos, sender: sender}
}

// Sweep evaluates every pending alert once. Alerts are grouped by asset type
// and ticker so each ticker costs one quote per sweep. A failed quote falls
// back to the asset class default price rather than skipping the group, and
// triggered alerts are removed after notification.
func (w *Watcher) Sweep(ctx context.Context) {
	stockGroups := make(map[string][]Alert)
	cryptoGroups := make(map[string][]Alert)

	for _, a := range w.registry.List() {
		if a.AssetType == "STOCK" {
			stockGroups[a.Ticker] = append(stockGroups[a.Ticker], a)
		} else {
			cryptoGroups[a.Ticker] = append(cryptoGroups[a.Ticker], a)
		}
	}

	w.sweepGroups(ctx, stockGroups, w.stocks, quotes.FallbackStockPrice)
	w.sweepGroups(ctx, cryptoGroups, w.cryptos, quotes.FallbackCryptoPrice)
}

func (w *Watcher) sweepGroups(ctx context.Context, groups map[string][]Alert, source quotes.Source, fallback decimal.Decimal) {
	for ticker, group := range groups {
		price, err := source.Quote(ctx, ticker)
		if err != nil {
			log.Printf("quote for %s failed, using fallback %s: %v", ticker, fallback, err)
			price = fallback
		}

		for _, a := range group {
			w.evaluate(ctx, a, price)
		}
	}
}

func (w *Watcher) evaluate(ctx context.Context, a Alert, current decimal.Decimal) {
	triggered := false
	switch a.TriggerCondition {
	case "ABOVE":
		triggered = current.GreaterThan(a.PriceTarget)
	case "BELOW":
		triggered = current.LessThan(a.PriceTarget)
	}
	if !triggered {
		return
	}

	log.Printf("alert triggered for %s: %s %s at current price %s", a.Ticker, a.TriggerCondition, a.PriceTarget, current)

	subject := fmt.Sprintf("Price Alert: %s", a.Ticker)
	message := fmt.Sprintf(
		"Your price alert for %s has been triggered.\n\n"+
			"Trigger condition: %s\n"+
			"Target price: %s\n"+
			"Current price: %s\n",
		a.Ticker, a.TriggerCondition, a.PriceTarget, current,
	)

	// A failed send keeps the alert pending so the next sweep retries it.
	if err := w.sender.Send(ctx, subject, message); err != nil {
		log.Printf("failed to send notification for alert %s: %v", a.ID, err)
		return
	}

	w.registry.Remove(a.ID)
}
