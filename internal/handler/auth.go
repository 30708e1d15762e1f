package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/bloglist/internal/service"
)

// AuthHandler exposes POST /api/login.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// loginRequest is the POST /api/login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse carries the bearer token the client will send back in the
// Authorization header, plus enough profile to greet the user.
type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// HandleLogin verifies credentials and issues a signed token.
//
// HTTP: POST /api/login → 200 {"token": ..., "username": ..., "name": ...}.
// Bad credentials (either half) → 401 {"error": "invalid username or password"}.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		Username: result.User.Username,
		Name:     result.User.Name,
	})
}
