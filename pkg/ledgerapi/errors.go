package ledgerapi

import (
	"fmt"
	"net/http"

	"github.com/statelock/codeledger/pkg/httpx"
)

// Error codes surfaced by the ledger API.
const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeUserNotFound           = "user_not_found"
	ErrorCodeCodeNotFound           = "code_not_found"
	ErrorCodeConcurrentModification = "concurrent_modification"
	ErrorCodeRandomnessUnavailable  = "randomness_unavailable"
	ErrorCodeEmailInUse             = "email_in_use"
	ErrorCodeTooManyAttempts        = "too_many_attempts"
	ErrorCodeAccessDenied           = "access_denied"
	ErrorCodeServerError            = "server_error"
)

// APIError is the JSON error envelope the service returns. It implements the
// error interface so SDK callers can use it directly.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned for malformed bodies or blank ids.
	// Rejected before any transaction is opened.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrUserNotFound is terminal; the profile does not exist.
	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUserNotFound,
		Description: "no user with that id",
	}

	// ErrCodeNotFound is terminal; no code was ever issued for the user.
	ErrCodeNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeCodeNotFound,
		Description: "no code has been issued for this user",
	}

	// ErrConcurrentModification is retryable: the operation lost its
	// conflict-retry budget to concurrent writers.
	ErrConcurrentModification = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConcurrentModification,
		Description: "the record was modified concurrently, retry the operation",
	}

	// ErrRandomnessUnavailable is a transient infrastructure failure of
	// the secure random source, distinct from business errors.
	ErrRandomnessUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeRandomnessUnavailable,
		Description: "secure random source unavailable, no code was issued",
	}

	// ErrEmailInUse is returned when provisioning collides with an
	// existing profile.
	ErrEmailInUse = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailInUse,
		Description: "a user with that id or email already exists",
	}

	// ErrTooManyAttempts is returned when the verify throttle kicks in.
	ErrTooManyAttempts = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeTooManyAttempts,
		Description: "too many failed attempts, try again later",
	}

	// ErrServerError is the catch-all for unexpected failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
