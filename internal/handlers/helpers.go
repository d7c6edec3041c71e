package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vakildesk/dwarpal/internal/entities"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, &errorResponse{Error: msg})
}

// respondServiceError maps a service-layer error to an HTTP response.
// Not-found maps to 404; everything else is an internal error with the
// detail kept out of the response body.
func respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, entities.ErrEmployeeNotFound) {
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}
	slog.Error("request failed", "error", err)
	respondError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
