package handlers

import (
	"net/http"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/session"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/version"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	session *session.Store
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(sess *session.Store) *SystemHandler {
	return &SystemHandler{
		session: sess,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

// Health reports service liveness and whether a backend session is held.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	sessionState := "absent"
	if h.session.Active() {
		sessionState = "active"
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Session: sessionState,
	})
}

// VersionResponse represents the version check response
type VersionResponse struct {
	AppVersion string `json:"app_version"`
}

// Version handles GET requests to retrieve the application version.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionResponse
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, VersionResponse{AppVersion: version.Version})
}
