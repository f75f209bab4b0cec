package middleware

import (
	"net/http"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/session"
)

// RequireSession rejects requests with 401 when no session tokens are held.
// The backend still authorizes every proxied call; this guard only keeps
// obviously unauthenticated traffic from reaching it.
func RequireSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.Active() {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrNoSession.Error(), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
