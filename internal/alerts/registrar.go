// Package alerts covers the price alert lifecycle: registration with the
// backend of record, a local registry of what was registered, and the
// periodic watcher that evaluates alerts against live quotes.
package alerts

import (
	"context"
	"strings"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/validation"
)

// AlertAPI is the slice of the backend client the registrar needs.
type AlertAPI interface {
	CreateAlert(ctx context.Context, alert backend.NewAlert) error
}

// Registrar validates and registers price alerts.
type Registrar struct {
	api      AlertAPI
	registry *Registry
}

// NewRegistrar creates an alert registrar backed by the given registry.
func NewRegistrar(api AlertAPI, registry *Registry) *Registrar {
	return &Registrar{api: api, registry: registry}
}

// Register validates a new alert, submits it to the backend, and records it
// in the local registry so the watcher can evaluate it. The ticker and the
// enum fields are normalized to upper case.
func (r *Registrar) Register(ctx context.Context, req request.CreateAlertRequest) (Alert, error) {
	if err := validation.ValidateCreateAlert(req); err != nil {
		return Alert{}, err
	}

	payload := backend.NewAlert{
		AssetType:        strings.ToUpper(strings.TrimSpace(req.AssetType)),
		Ticker:           strings.ToUpper(strings.TrimSpace(req.Ticker)),
		PriceTarget:      req.PriceTarget,
		TriggerCondition: strings.ToUpper(strings.TrimSpace(req.TriggerCondition)),
	}

	if err := r.api.CreateAlert(ctx, payload); err != nil {
		return Alert{}, err
	}

	return r.registry.Add(payload), nil
}
