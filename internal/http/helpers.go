package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"timemanager/internal/core"
	"timemanager/internal/log"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// requirePost enforces the method; the response carries an Allow header
// so API clients can self-correct.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// rejectOrFail maps a mutation error to a response. Domain validation
// failures are silently rejected with 204, matching the client contract
// that bad input leaves the dashboard untouched. Anything else is a 500.
func (s *Server) rejectOrFail(w http.ResponseWriter, r *http.Request, err error) {
	if isValidationErr(err) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.logger.ErrorContext(r.Context(), "Mutation failed",
		log.FieldPath, r.URL.Path, log.FieldError, err)
	w.WriteHeader(http.StatusInternalServerError)
}

func isValidationErr(err error) bool {
	return errors.Is(err, core.ErrEmptyTitle) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidPriority) ||
		errors.Is(err, core.ErrInvalidDuration) ||
		errors.Is(err, core.ErrNotFound)
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
