// Package transactions orchestrates the per-asset-class CRUD flows: validate,
// normalize, call the backend of record, then signal the domain's refresh
// trigger. There are no optimistic local updates; every mutation is a round
// trip followed by a refetch on the consumer side.
package transactions

import (
	"context"
	"strings"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/refresh"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/validation"
)

// API is the slice of the backend client the service needs.
type API interface {
	CreateTransaction(ctx context.Context, asset backend.Asset, tx backend.NewTransaction) (backend.Transaction, error)
	ListTransactions(ctx context.Context, asset backend.Asset) ([]backend.Transaction, error)
	ListTransactionsByTicker(ctx context.Context, asset backend.Asset, ticker string) ([]backend.Transaction, error)
	UpdateTransaction(ctx context.Context, asset backend.Asset, id int64, update backend.TransactionUpdate) (backend.Transaction, error)
	DeleteTransaction(ctx context.Context, asset backend.Asset, id int64) error
	Summary(ctx context.Context, asset backend.Asset) ([]backend.SummaryRow, error)
}

// Service handles one asset class. Two instances exist, one per class, each
// wired to its own refresh domain.
type Service struct {
	api    API
	hub    *refresh.Hub
	asset  backend.Asset
	domain refresh.Domain
}

// NewService creates a transaction service for one asset class.
func NewService(api API, hub *refresh.Hub, asset backend.Asset) *Service {
	domain := refresh.Crypto
	if asset == backend.AssetStock {
		domain = refresh.Stock
	}
	return &Service{api: api, hub: hub, asset: asset, domain: domain}
}

// Asset returns the asset class this service handles.
func (s *Service) Asset() backend.Asset { return s.asset }

// Create validates and submits a new transaction. The ticker is normalized to
// upper case before submission. On success the domain refresh fires; on
// failure nothing is signalled and the caller's form state stays intact.
func (s *Service) Create(ctx context.Context, req request.CreateTransactionRequest) (backend.Transaction, error) {
	if err := validation.ValidateCreateTransaction(req); err != nil {
		return backend.Transaction{}, err
	}

	tx := backend.NewTransaction{
		Ticker:          strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Units:           req.Units,
		PricePerUnit:    req.PricePerUnit,
		TransactionType: strings.ToUpper(strings.TrimSpace(req.TransactionType)),
	}

	created, err := s.api.CreateTransaction(ctx, s.asset, tx)
	if err != nil {
		return backend.Transaction{}, err
	}

	s.hub.Trigger(s.domain)
	return created, nil
}

// List returns all transactions of the class.
func (s *Service) List(ctx context.Context) ([]backend.Transaction, error) {
	return s.api.ListTransactions(ctx, s.asset)
}

// ListByTicker returns the class transactions for one ticker, normalized to
// upper case.
func (s *Service) ListByTicker(ctx context.Context, ticker string) ([]backend.Transaction, error) {
	return s.api.ListTransactionsByTicker(ctx, s.asset, strings.ToUpper(strings.TrimSpace(ticker)))
}

// Update submits the mutable fields of an existing transaction and fires the
// domain refresh on success.
func (s *Service) Update(ctx context.Context, id int64, req request.UpdateTransactionRequest) (backend.Transaction, error) {
	if err := validation.ValidateUpdateTransaction(req); err != nil {
		return backend.Transaction{}, err
	}

	updated, err := s.api.UpdateTransaction(ctx, s.asset, id, backend.TransactionUpdate{
		Units:        req.Units,
		PricePerUnit: req.PricePerUnit,
	})
	if err != nil {
		return backend.Transaction{}, err
	}

	s.hub.Trigger(s.domain)
	return updated, nil
}

// Delete removes a transaction. The confirmed flag is the explicit
// confirmation step: without it the backend is never called.
func (s *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperrors.ErrDeleteNotConfirmed
	}

	if err := s.api.DeleteTransaction(ctx, s.asset, id); err != nil {
		return err
	}

	s.hub.Trigger(s.domain)
	return nil
}

// Summary passes through the backend's per-ticker aggregation.
func (s *Service) Summary(ctx context.Context) ([]backend.SummaryRow, error) {
	return s.api.Summary(ctx, s.asset)
}
