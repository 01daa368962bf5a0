package backend

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAPIError_InfersNonceCodeFromLegacyMarker(t *testing.T) {
	err := NewAPIError("", "Your security token is invalid or has expired. Please try again.", 400)
	if err.Code != CodeNonceExpired {
		t.Fatalf("code = %q, want %q", err.Code, CodeNonceExpired)
	}
	if !IsNonceExpired(err) {
		t.Fatal("IsNonceExpired should report true")
	}
}

func TestNewAPIError_UnknownMessageFallsBackToInternal(t *testing.T) {
	err := NewAPIError("", "something broke", 500)
	if err.Code != CodeInternal {
		t.Fatalf("code = %q, want %q", err.Code, CodeInternal)
	}
	if IsNonceExpired(err) {
		t.Fatal("IsNonceExpired should report false")
	}
}

func TestNewAPIError_ExplicitCodeWins(t *testing.T) {
	err := NewAPIError(CodeValidation, "security token is invalid or has expired", 400)
	if err.Code != CodeValidation {
		t.Fatalf("code = %q, want %q", err.Code, CodeValidation)
	}
}

func TestIsNonceExpired_WrappedError(t *testing.T) {
	inner := NewAPIError(CodeNonceExpired, "stale nonce", 400)
	wrapped := fmt.Errorf("submit: %w", inner)
	if !IsNonceExpired(wrapped) {
		t.Fatal("wrapped nonce error should be detected")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NewAPIError(CodeNotFound, "no such form", 404)) {
		t.Fatal("not_found should report true")
	}
	if !IsNotFound(NewAPIError(CodeFormInactive, "form disabled", 410)) {
		t.Fatal("form_inactive should report true")
	}
	if IsNotFound(errors.New("network down")) {
		t.Fatal("plain error should report false")
	}
}

func TestAsAPIError(t *testing.T) {
	apiErr, ok := AsAPIError(fmt.Errorf("wrap: %w", NewAPIError(CodeCaptchaRejected, "rejected", 400)))
	if !ok || apiErr.Code != CodeCaptchaRejected {
		t.Fatalf("AsAPIError = %+v, %v", apiErr, ok)
	}
	if _, ok := AsAPIError(errors.New("timeout")); ok {
		t.Fatal("plain error should not unwrap to APIError")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	withMsg := NewAPIError(CodeValidation, "email is invalid", 400)
	if got := withMsg.Error(); got != "backend: validation: email is invalid" {
		t.Fatalf("Error() = %q", got)
	}
	bare := &APIError{Code: CodeInternal}
	if got := bare.Error(); got != "backend: internal" {
		t.Fatalf("Error() = %q", got)
	}
}
