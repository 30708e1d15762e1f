package handler

// RESPONSE HELPERS:
// Every handler sends JSON through these two functions so the whole API has
// one error shape: {"error": "<message>"}. The single exception is 404,
// which the API contract defines as an empty body.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/bloglist/internal/apperror"
)

// errorResponse is the standard error body: {"error": "..."}.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status MUST be set before the body: the first Write sends
// them, and changes after that are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status code and body.
//
// The service layer returns apperror values; this is the single place they
// become status codes:
//
//	ErrValidation   → 400 {"error": msg}   (missing field, malformed id, weak password)
//	ErrConflict     → 400 {"error": msg}   (duplicate username)
//	ErrUnauthorized → 401 {"error": msg}   (bad token, ownership mismatch, bad credentials)
//	ErrNotFound     → 404, empty body
//	anything else   → 500 {"error": serverMsg}
//
// serverMsg is the endpoint's generic failure message; raw error details
// (SQL, file paths) are never sent to the client.
func writeError(w http.ResponseWriter, err error, serverMsg string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: serverMsg})
}
