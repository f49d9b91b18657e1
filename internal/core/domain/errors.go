package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "SB-MED-5030")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Registry errors (REG).
var (
	// ErrIdentityViolation indicates an attempted duplication of a store
	// instance. A store kind has exactly one live instance per registry;
	// cloning one is always a programming error, never recoverable.
	ErrIdentityViolation = NewDomainError("SB-REG-4090", "store instance duplication attempted")
)

// Value errors (VAL).
var (
	// ErrEncoding indicates a value could not be converted to or from
	// its wire form.
	ErrEncoding = NewDomainError("SB-VAL-4220", "value encoding failed")
)

// Medium errors (MED).
var (
	// ErrMediumUnavailable indicates the adapter's backing medium refuses
	// writes, e.g. the response header has already been flushed for a
	// cookie-backed store.
	ErrMediumUnavailable = NewDomainError("SB-MED-5030", "backing medium unavailable for writes")
)

// Session errors (SESS).
var (
	// ErrSessionNotFound indicates the requested session was not found.
	ErrSessionNotFound = NewDomainError("SB-SESS-4040", "session not found")

	// ErrSessionExpired indicates the session has expired.
	ErrSessionExpired = NewDomainError("SB-SESS-4041", "session expired")

	// ErrSessionIDInvalid indicates a malformed session id.
	ErrSessionIDInvalid = NewDomainError("SB-SESS-4000", "invalid session id")
)

// System errors (SYS).
var (
	// ErrStorage indicates a storage engine error.
	ErrStorage = NewDomainError("SB-SYS-5001", "storage error")

	// ErrInternal indicates an internal error.
	ErrInternal = NewDomainError("SB-SYS-5000", "internal error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("SB-SYS-4000", "bad request")
)
