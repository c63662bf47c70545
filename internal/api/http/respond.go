package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"everkeep-backend/internal/domain"
	"everkeep-backend/internal/logger"
)

// errorResponse is the JSON body returned for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// respondError maps domain errors to HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPermissionDenied):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Error("internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
