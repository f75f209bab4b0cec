package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/testutil"
)

func TestRequireSession(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects requests without a session", func(t *testing.T) {
		guard := RequireSession(testutil.NewSessionStore(t))

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil)
		w := httptest.NewRecorder()

		guard(next).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("passes requests with an active session", func(t *testing.T) {
		guard := RequireSession(testutil.NewActiveSessionStore(t, "access"))

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil)
		w := httptest.NewRecorder()

		guard(next).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}
