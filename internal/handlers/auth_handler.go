package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/services"
)

// Authenticator proxies credential checks to the remote auth API
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
}

// AuthHandler handles login and console session lifecycle
type AuthHandler struct {
	BaseHandler
	auth     Authenticator
	sessions *services.SessionManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, sessions *services.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		auth:        auth,
		sessions:    sessions,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// sessionResponse is the payload returned after a successful login
type sessionResponse struct {
	SessionID string      `json:"session_id"`
	Token     string      `json:"token"`
	User      models.User `json:"user"`
}

// Login handles POST /auth/login
// @Summary Log in as an instructor
// @Description Proxy credentials to the auth API and mint a console editing session. Non-instructor accounts are rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} sessionResponse "Console session"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Account is not an instructor"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	resp, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.Logger.Warn("login failed", zap.String("username", req.Username), zap.Error(err))
		h.RespondAPIError(w, err)
		return
	}

	sess := h.sessions.Create(resp.User, resp.Token)
	h.RespondJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		Token:     resp.Token,
		User:      resp.User,
	})
}
