package handlers

import (
	"net/http"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/news"
)

// NewsHandler handles market news requests.
type NewsHandler struct {
	client *news.Client
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(client *news.Client) *NewsHandler {
	return &NewsHandler{
		client: client,
	}
}

// Fetch handles GET requests for today's market news. Both filters are
// optional comma separated lists.
//
// Endpoint: GET /api/news?tickers=AAPL,MSFT&topics=technology
// Response: 200 OK with array of Article (at most 10, empty when none)
// Error: 500 Internal Server Error if the news provider fails
func (h *NewsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	query := news.Query{
		Tickers: r.URL.Query().Get("tickers"),
		Topics:  r.URL.Query().Get("topics"),
	}

	articles, err := h.client.Fetch(r.Context(), query)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveNews, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, articles)
}
