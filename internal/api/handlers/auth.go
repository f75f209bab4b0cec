package handlers

import (
	"net/http"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/response"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/apperrors"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/session"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/validation"
)

// AuthHandler handles login, registration, and logout.
type AuthHandler struct {
	client  *backend.Client
	session *session.Store
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(client *backend.Client, sess *session.Store) *AuthHandler {
	return &AuthHandler{
		client:  client,
		session: sess,
	}
}

// SessionResponse reports whether a session is currently held.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login handles POST requests to authenticate against the backend.
// On success the token pair is stored and subsequent requests carry it.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (username, password)
// Response: 200 OK with SessionResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 401 Unauthorized if the credentials are rejected
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLogin(req); err != nil {
		respondServiceError(w, apperrors.ErrLoginFailed, err)
		return
	}

	if err := h.client.Login(r.Context(), backend.Credentials{
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrLoginFailed.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, SessionResponse{Authenticated: true})
}

// Register handles POST requests to create a backend account.
//
// Endpoint: POST /api/auth/register
// Request Body: RegisterRequest (username, email, password)
// Response: 201 Created with SessionResponse
// Error: 400 Bad Request if validation fails or the backend rejects the payload
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRegister(req); err != nil {
		respondServiceError(w, apperrors.ErrRegisterFailed, err)
		return
	}

	if err := h.client.Register(r.Context(), backend.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrRegisterFailed.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, SessionResponse{Authenticated: false})
}

// Logout handles POST requests to drop the held session tokens.
//
// Endpoint: POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to clear session", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Session handles GET requests to report the current session state.
//
// Endpoint: GET /api/auth/session
// Response: 200 OK with SessionResponse
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, SessionResponse{Authenticated: h.session.Active()})
}
