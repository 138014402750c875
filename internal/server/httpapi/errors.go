package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlodewijk/modcat/internal/common"
)

// APIError is the error body every failing endpoint returns. Clients switch
// on Kind; Message is for display.
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error kinds used in responses.
const (
	KindMissingField       = "missing_field"
	KindBadFormat          = "bad_format"
	KindInvalidCredentials = "invalid_credentials"
	KindEmailExists        = "email_exists"
	KindUnauthorized       = "unauthorized"
	KindNotFound           = "not_found"
	KindRateLimited        = "rate_limited"
	KindInternal           = "internal"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, APIError{Kind: kind, Message: message})
}

// writeDomainError translates a service-layer error into a status code and a
// tagged body. Unknown errors become an opaque 500: store failures never leak
// detail to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, KindInvalidCredentials, "Invalid credentials")
	case errors.Is(err, common.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, KindEmailExists, "User with this email already exists")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "User not found")
	case errors.Is(err, common.ErrMissingField):
		writeError(w, http.StatusBadRequest, KindMissingField, err.Error())
	case errors.Is(err, common.ErrBadFormat):
		writeError(w, http.StatusBadRequest, KindBadFormat, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, KindInternal, "Internal server error")
	}
}
