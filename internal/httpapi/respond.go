// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/characterforge/characterforge/internal/auth"
	"github.com/characterforge/characterforge/internal/game"
	"github.com/characterforge/characterforge/pkg/errutil"
)

// errorResponse is the JSON error body: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to encode response body", "error", err)
	}
}

// writeError writes a JSON error body with a stable textual reason.
func writeError(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

// validationCodes are oops codes for caller mistakes that map to 400.
var validationCodes = map[string]struct{}{
	"AUTH_INVALID_USERNAME": {},
	"AUTH_INVALID_EMAIL":    {},
	"AUTH_EMPTY_PASSWORD":   {},
	"AUTH_INVALID_USER":     {},
	"CHARACTER_INVALID":     {},
}

// respondError translates a domain error into the API status and reason.
// Anything unrecognized is a 500 and gets logged with its full context.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var valErr *game.ValidationError

	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		writeError(w, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, "Character not found")
	case errors.Is(err, game.ErrClassNotFound):
		writeError(w, http.StatusBadRequest, "Class not found")
	case errors.Is(err, game.ErrSpeciesNotFound):
		writeError(w, http.StatusBadRequest, "Species not found")
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	case errutil.CodeOf(err) == "AUTH_ACCOUNT_LOCKED":
		writeError(w, http.StatusUnauthorized, "Account is temporarily locked")
	default:
		if _, ok := validationCodes[errutil.CodeOf(err)]; ok {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		errutil.LogError(s.logger, "request failed", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
