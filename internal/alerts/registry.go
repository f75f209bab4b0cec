package alerts

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
)

// Alert is a registered price alert held for watcher evaluation.
type Alert struct {
	ID               string          `json:"id"`
	AssetType        string          `json:"asset_type"`
	Ticker           string          `json:"ticker"`
	PriceTarget      decimal.Decimal `json:"price_target"`
	TriggerCondition string          `json:"trigger_condition"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Registry is an in-memory set of active alerts. Alerts are removed once
// triggered, so the registry only ever holds pending ones.
type Registry struct {
	mu     sync.RWMutex
	alerts map[string]Alert
}

// NewRegistry creates an empty alert registry.
func NewRegistry() *Registry {
	return &Registry{alerts: make(map[string]Alert)}
}

// Add records a registered alert and returns it with its assigned ID.
func (r *Registry) Add(payload backend.NewAlert) Alert {
	a := Alert{
		ID:               uuid.NewString(),
		AssetType:        payload.AssetType,
		Ticker:           payload.Ticker,
		PriceTarget:      payload.PriceTarget,
		TriggerCondition: payload.TriggerCondition,
		CreatedAt:        time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[a.ID] = a
	return a
}

// List returns all pending alerts.
func (r *Registry) List() []Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		out = append(out, a)
	}
	return out
}

// Remove drops an alert by ID. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.alerts, id)
}
