package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorError(t *testing.T) {
	e := NewDomainError("SB-TEST-0001", "something broke")
	if got := e.Error(); got != "[SB-TEST-0001] something broke" {
		t.Errorf("Error() = %q", got)
	}

	with := e.WithDetails("key \"x\"")
	if got := with.Error(); got != "[SB-TEST-0001] something broke: key \"x\"" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDomainErrorIs(t *testing.T) {
	err := ErrSessionNotFound.WithDetails("sbss-123")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Error("errors.Is(WithDetails, base) = false")
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Error("errors.Is matched different code")
	}
	if errors.Is(err, errors.New("plain")) {
		t.Error("errors.Is matched non-domain error")
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := ErrStorage.WithCause(cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return cause")
	}
}

func TestIsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrEncoding)

	if !IsDomainError(wrapped, "SB-VAL-4220") {
		t.Error("IsDomainError with matching code = false")
	}
	if IsDomainError(wrapped, "SB-REG-4090") {
		t.Error("IsDomainError with other code = true")
	}
	if !IsDomainError(wrapped, "") {
		t.Error("IsDomainError with empty code = false")
	}
	if IsDomainError(errors.New("plain"), "") {
		t.Error("IsDomainError(plain) = true")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(ErrIdentityViolation); got != "SB-REG-4090" {
		t.Errorf("GetErrorCode = %q", got)
	}
	if got := GetErrorCode(errors.New("plain")); got != "" {
		t.Errorf("GetErrorCode(plain) = %q, want empty", got)
	}
}
