package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"betledger/internal/core"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error     string `json:"error"`
	Succeeded *int   `json:"succeeded,omitempty"`
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors to status codes: validation failures are
// unprocessable, selection conflicts conflict, missing records not found,
// and persistence failures bad gateway with the number of writes that did
// land.
func respondError(w http.ResponseWriter, err error) {
	var (
		ve *core.ValidationError
		se *core.SelectionError
		nf *core.NotFoundError
		pe *core.PersistenceError
	)

	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &se):
		status = http.StatusConflict
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.As(err, &pe):
		status = http.StatusBadGateway
		succeeded := pe.Succeeded
		resp.Succeeded = &succeeded
	}
	respondJSON(w, status, resp)
}

// decodeJSON reads a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// extractClientIP resolves the client address, honoring proxy headers.
func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
