package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"

	"github.com/gorilla/mux"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, message string, status int, errs []ValidationError) {
	respondJSON(w, status, ErrorResponse{Error: message, Errors: errs})
}

// statusFor maps domain error kinds to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrIllegalState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOwnership):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// fail writes the error response. Infrastructure errors are logged and
// reported without details.
func fail(w http.ResponseWriter, r *http.Request, lgr logger.Logger, action string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		lgr.Error(action, "Request failed", requestID(r.Context()), map[string]interface{}{
			"path": r.URL.Path,
		}, err)
		respondError(w, "Internal server error", status, nil)
		return
	}
	respondError(w, err.Error(), status, nil)
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		respondError(w, "Invalid "+name, http.StatusBadRequest, nil)
		return 0, false
	}
	return id, true
}

// caller returns the authenticated identity or writes 401.
func caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized, nil)
	}
	return identity, ok
}

// elevated returns the identity of an admin or manager, or writes 401/403.
func elevated(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := caller(w, r)
	if !ok {
		return identity, false
	}
	if !identity.IsElevated() {
		respondError(w, "Administrator or manager role required", http.StatusForbidden, nil)
		return identity, false
	}
	return identity, true
}

func parseTime(w http.ResponseWriter, field, raw string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   field,
			Message: "must be an RFC 3339 timestamp",
		}})
		return time.Time{}, false
	}
	return t, true
}
