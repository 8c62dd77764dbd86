package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"studydesk/internal/service"
	"studydesk/internal/validation"
)

// writeJSON writes a JSON response with the given status. A nil payload
// writes the status line only.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondWithError writes a JSON error body and logs the underlying error
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	writeJSON(w, status, map[string]string{"error": userMsg})
}

// respondServiceError maps the shared service sentinels onto HTTP statuses.
// Endpoint-specific mappings stay in their handlers.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
	case errors.Is(err, service.ErrDeckNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrLastCourse):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, service.ErrEmptyDeck):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrNoActiveSession):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Unhandled service error", err)
	}
}

// decodeJSON reads a JSON request body into dst with a size cap
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}
