package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/bloglist/internal/auth"
	"github.com/sakif/bloglist/internal/service"
)

// PostHandler exposes the /api/blogs endpoints.
//
// DIVISION OF LABOUR:
// The handler owns everything HTTP — decoding bodies, reading the bearer
// token from the request context, verifying it, and mapping outcomes to
// status codes. The PostService owns the rules (required fields, ownership,
// id validation) and never sees a request or a status code.
type PostHandler struct {
	posts  *service.PostService
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, tokens *auth.TokenService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		tokens: tokens,
		logger: logger,
	}
}

// createPostRequest is the POST /api/blogs body.
// Likes decodes to its zero value when absent, which is exactly the
// documented default of 0 — no pointer needed.
type createPostRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

// updateLikesRequest is the PUT /api/blogs/{id} body. Only likes is read;
// any other fields in the body are ignored.
type updateLikesRequest struct {
	Likes int `json:"likes"`
}

// HandleList returns all posts with their owner summaries.
//
// HTTP: GET /api/blogs → 200 JSON array. No auth.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, err, "getting the items failed")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGetByID returns one post.
//
// HTTP: GET /api/blogs/{id} → 200 JSON, 404 empty body if absent,
// 400 if the id is malformed. The two failure modes stay distinct: parsing
// the id and looking it up are different steps.
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "getting the item failed")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate stores a new post owned by the authenticated user.
//
// HTTP: POST /api/blogs, Authorization: Bearer <token> → 200 JSON of the
// created post.
//
// Failure order matters and each mode is distinct:
//  1. no token in the request        → 401 "Missing or invalid token"
//  2. token fails verification       → 401 with the verifier's message
//  3. body missing title or url      → 400 "No title or URL"
//  4. principal not a stored user    → 401
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.Title, req.Author, req.URL, req.Likes)
	if err != nil {
		writeError(w, err, "bad request")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUpdateLikes updates only the likes field of a post.
//
// HTTP: PUT /api/blogs/{id} → 200 JSON of the updated post, 400 on a
// malformed id. Deliberately unauthenticated — see DESIGN.md on the
// delete/update asymmetry.
func (h *PostHandler) HandleUpdateLikes(w http.ResponseWriter, r *http.Request) {
	var req updateLikesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid likes JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	post, err := h.posts.UpdateLikes(r.Context(), r.PathValue("id"), req.Likes)
	if err != nil {
		writeError(w, err, "updating the item failed")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post. Requires a valid token AND ownership — only
// the original poster may delete.
//
// HTTP: DELETE /api/blogs/{id} → 204 empty.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err, "deleting the item failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authenticate resolves the request's bearer token to a principal id.
// On failure it writes the 401 response and returns ok=false; token
// EXTRACTION happened earlier in the middleware and never fails, so absence
// here means the client sent no usable Authorization header at all.
func (h *PostHandler) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Missing or invalid token"})
		return "", false
	}

	userID, err := h.tokens.Validate(token)
	if err != nil {
		// The verifier's message ("token expired", "invalid token: ...")
		// goes to the client so it can tell re-login from a client bug.
		writeError(w, err, "bad request")
		return "", false
	}

	return userID, true
}
