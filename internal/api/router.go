// Package api assembles the HTTP surface of the dashboard gateway.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/alerts"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/handlers"
	custommiddleware "github.com/avelthuis/portfolio-dashboard-gateway/internal/api/middleware"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/config"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/money"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/news"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/portfolio"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/rates"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/session"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/tax"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/transactions"
)

// Dependencies carries everything the router mounts. All fields are
// required; construction happens in main and nothing here is looked up
// ambiently.
type Dependencies struct {
	Config     *config.Config
	Session    *session.Store
	Backend    *backend.Client
	Rates      *rates.Store
	Money      *money.Service
	Aggregator *portfolio.Aggregator
	Crypto     *transactions.Service
	Stocks     *transactions.Service
	Registrar  *alerts.Registrar
	Registry   *alerts.Registry
	News       *news.Client
	Tax        *tax.Client
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(deps.Config.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireSession := custommiddleware.RequireSession(deps.Session)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(deps.Session)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(deps.Backend, deps.Session)
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		// Everything below is dashboard content and needs a session.
		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Route("/currency", func(r chi.Router) {
				currencyHandler := handlers.NewCurrencyHandler(deps.Rates)
				r.Get("/", currencyHandler.Current)
				r.Get("/supported", currencyHandler.Supported)
				r.Put("/", currencyHandler.Select)
			})

			r.Route("/crypto", func(r chi.Router) {
				mountTransactionRoutes(r, handlers.NewTransactionHandler(deps.Crypto))
			})
			r.Route("/stocks", func(r chi.Router) {
				mountTransactionRoutes(r, handlers.NewTransactionHandler(deps.Stocks))
			})

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(deps.Aggregator, deps.Money, deps.Rates)
				r.Get("/summary", portfolioHandler.Summary)
				r.Post("/refresh", portfolioHandler.Refresh)
			})

			r.Route("/alerts", func(r chi.Router) {
				alertHandler := handlers.NewAlertHandler(deps.Registrar, deps.Registry)
				r.Post("/", alertHandler.Create)
				r.Get("/", alertHandler.List)
			})

			r.Route("/news", func(r chi.Router) {
				newsHandler := handlers.NewNewsHandler(deps.News)
				r.Get("/", newsHandler.Fetch)
			})

			r.Route("/tax", func(r chi.Router) {
				taxHandler := handlers.NewTaxHandler(deps.Tax)
				r.Post("/", taxHandler.Calculate)
			})
		})
	})

	return r
}

// mountTransactionRoutes wires one asset class's transaction endpoints. Both
// classes share the same route shape even though the backend paths differ.
func mountTransactionRoutes(r chi.Router, h *handlers.TransactionHandler) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/ticker/{ticker}", h.ByTicker)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	r.Get("/summary", h.Summary)
}
