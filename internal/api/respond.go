// ABOUTME: JSON response helpers and error-to-status mapping
// ABOUTME: Translates store and auth sentinel errors into HTTP responses

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/media"
	"github.com/tubecast/tubecast/internal/store"
)

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// sendError maps sentinel errors to HTTP statuses. Anything unrecognized is
// logged and reported as a 500 without leaking internals.
func (s *Server) sendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrUnauthorized):
		s.sendJSONError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		s.sendJSONError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrUsernameExists):
		s.sendJSONError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, store.ErrEmailExists):
		s.sendJSONError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, store.ErrVideoInPlaylist):
		s.sendJSONError(w, http.StatusConflict, "video already in playlist")
	case errors.Is(err, store.ErrVideoNotInPlaylist):
		s.sendJSONError(w, http.StatusNotFound, "video not in playlist")
	case errors.Is(err, media.ErrTooLarge):
		s.sendJSONError(w, http.StatusRequestEntityTooLarge, "upload too large")
	case errors.Is(err, media.ErrEmptyUpload):
		s.sendJSONError(w, http.StatusBadRequest, "upload is empty")
	case errors.Is(err, media.ErrUnsupported):
		s.sendJSONError(w, http.StatusBadRequest, "unsupported file type")
	default:
		s.logger.Error("request failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses a JSON request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
