package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartscholars/accounts/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeInvalidIdentity       = "INVALID_IDENTITY"
	CodeInvalidDisplayName    = "INVALID_DISPLAY_NAME"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeIdentityExists        = "IDENTITY_EXISTS"
	CodePasswordMismatch      = "PASSWORD_MISMATCH"
	CodeWeakPassword          = "WEAK_PASSWORD"
	CodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeDeliveryFailed        = "DELIVERY_FAILED"
	CodeRateLimited           = "RATE_LIMITED"
	CodeStorageBusy           = "STORAGE_BUSY"
	CodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// WritePanic answers a request whose handler panicked. The panic value is
// logged by the recovery middleware and never sent to the client.
func WritePanic(w http.ResponseWriter, _ *http.Request, _ any) {
	WriteError(w, NewInternalError())
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError.
// Messages are fixed strings so wrapped causes never reach the client.
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidIdentity):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidIdentity, "A valid email is required"}}
	case errors.Is(err, model.ErrInvalidDisplayName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDisplayName, "Full name is too long"}}
	case errors.Is(err, model.ErrDuplicateIdentity):
		return &httpError{http.StatusConflict, APIError{CodeIdentityExists, "Email already registered"}}
	case errors.Is(err, model.ErrPasswordMismatch):
		return &httpError{http.StatusBadRequest, APIError{CodePasswordMismatch, "Passwords do not match"}}
	case errors.Is(err, model.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeWeakPassword, model.ErrWeakPassword.Error()}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Email not found"}}
	case errors.Is(err, model.ErrInvalidCredential):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, model.ErrInvalidOrExpiredToken):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidOrExpiredToken, "Invalid or expired reset link"}}
	case errors.Is(err, model.ErrDeliveryFailed):
		return &httpError{http.StatusBadGateway, APIError{CodeDeliveryFailed, "Failed to send reset link. Please try again later."}}
	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	// Map storage errors
	case errors.Is(err, model.ErrStorageBusy):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStorageBusy, "Service busy, please retry"}}
	case errors.Is(err, model.ErrStorageUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStorageUnavailable, "Service temporarily unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests. Please try again later."}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
