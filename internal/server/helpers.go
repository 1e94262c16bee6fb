package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/norteacoes/vista/internal/clients/norteapi"
	"github.com/norteacoes/vista/internal/services/session"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// WriteServiceError maps session and upstream errors to HTTP responses.
// Upstream status codes pass through; session gating errors carry a
// machine-readable code so the UI can route to login or the paywall.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		WriteErrorWithCode(w, http.StatusUnauthorized, "Login required", "login_required")
	case errors.Is(err, session.ErrSessionExpired):
		WriteErrorWithCode(w, http.StatusUnauthorized, "Session expired", "session_expired")
	case errors.Is(err, session.ErrPremiumRequired):
		WriteErrorWithCode(w, http.StatusForbidden, "Premium subscription required", "premium_required")
	default:
		var apiErr *norteapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
			WriteError(w, apiErr.StatusCode, apiErr.Message)
			return
		}
		WriteError(w, http.StatusBadGateway, err.Error())
	}
}
