package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/money"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/portfolio"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/rates"
)

// PortfolioHandler handles the aggregated dashboard endpoints.
type PortfolioHandler struct {
	aggregator *portfolio.Aggregator
	formatter  *money.Service
	rates      *rates.Store
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(aggregator *portfolio.Aggregator, formatter *money.Service, rateStore *rates.Store) *PortfolioHandler {
	return &PortfolioHandler{
		aggregator: aggregator,
		formatter:  formatter,
		rates:      rateStore,
	}
}

// SummaryResponse is the dashboard headline: holding counts, per-class
// values in the base currency, and the total formatted in the selected
// display currency.
type SummaryResponse struct {
	TotalCryptos     int             `json:"totalCryptos"`
	TotalStocks      int             `json:"totalStocks"`
	CryptoValue      decimal.Decimal `json:"cryptoValue"`
	StockValue       decimal.Decimal `json:"stockValue"`
	PortfolioValue   decimal.Decimal `json:"portfolioValue"`
	FormattedTotal   string          `json:"formattedTotal"`
	Currency         string          `json:"currency"`
	UsingDefaultRate bool            `json:"usingDefaultRate"`
}

// Summary handles GET requests for the aggregated portfolio summary.
// Values are cached from the last refresh; a load failure earlier leaves
// zero values rather than an error here.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with SummaryResponse
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	stats := h.aggregator.Stats()
	state := h.rates.Snapshot()

	response.RespondJSON(w, http.StatusOK, SummaryResponse{
		TotalCryptos:     stats.CryptoTickers,
		TotalStocks:      stats.StockTickers,
		CryptoValue:      stats.CryptoValue,
		StockValue:       stats.StockValue,
		PortfolioValue:   stats.PortfolioValue,
		FormattedTotal:   h.formatter.FormatBase(stats.PortfolioValue),
		Currency:         state.Currency,
		UsingDefaultRate: state.UsingDefault,
	})
}

// Refresh handles POST requests to refetch both asset class summaries.
//
// Endpoint: POST /api/portfolio/refresh
// Response: 200 OK with SummaryResponse reflecting the fresh data
// Error: 500 Internal Server Error if either class fails to load
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.aggregator.Load(r.Context()); err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveSummary, err)
		return
	}

	h.Summary(w, r)
}
