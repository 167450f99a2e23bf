// Package handler provides the HTTP API for the Lit Up catalog service.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/service"
)

// ErrorResponse is the JSON body returned for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response. Catalog responses are personal data
// behind the edge gate, so they are never cached.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps a service error to an HTTP status and JSON body.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		msg = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

// statusFor maps domain and service errors onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSongNotFound),
		errors.Is(err, domain.ErrConfigNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrSongAlreadyExists),
		errors.Is(err, domain.ErrConfigAlreadyExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrSongAudioOriginRequired),
		errors.Is(err, domain.ErrSongAlbumArtOriginRequired),
		errors.Is(err, domain.ErrSongArtistRequired),
		errors.Is(err, domain.ErrSongTitleRequired),
		errors.Is(err, domain.ErrConfigIDRequired),
		errors.Is(err, domain.ErrConfigTrackIncomplete),
		errors.Is(err, service.ErrInvalidID):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// badRequest writes a 400 with the given message.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: message})
}
