package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/bloglist/internal/service"
)

// UserHandler exposes the /api/users endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// createUserRequest is the POST /api/users body.
//
// WHY *bool FOR Adult?
// A plain bool cannot tell "adult": false apart from an absent field — both
// decode to false. The pointer keeps the distinction: nil means the field
// was omitted and the documented default (true) applies; an explicit false
// is honoured.
type createUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Adult    *bool  `json:"adult"`
}

// HandleList returns all users with their post references inlined.
//
// HTTP: GET /api/users → 200 JSON array. The password hash is excluded by
// the model's json:"-" tag, so there is nothing to scrub here.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err, "Getting the users failed")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleCreate registers a new user.
//
// HTTP: POST /api/users → 200 JSON of the created user (no password hash).
// 400 with "Username must be unique" or "Password has to be over 3
// characters long" on the two validation failures.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Name, req.Password, req.Adult)
	if err != nil {
		writeError(w, err, "Request failed")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
