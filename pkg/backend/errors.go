package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a server-reported failure. The backend is expected to
// send these codes explicitly; the legacy message markers below exist only
// for deployments that still report failures as prose.
type ErrorCode string

const (
	CodeNotFound        ErrorCode = "not_found"
	CodeFormInactive    ErrorCode = "form_inactive"
	CodeNonceExpired    ErrorCode = "nonce_expired"
	CodeCaptchaRejected ErrorCode = "captcha_rejected"
	CodeValidation      ErrorCode = "validation"
	CodeInternal        ErrorCode = "internal"
)

// legacyNonceMarker is the substring older backends embed in the error text
// when the anti-replay token has been consumed or timed out. Matching it is a
// fallback; CodeNonceExpired is the contract.
const legacyNonceMarker = "security token is invalid or has expired"

// APIError is a structured failure reported by the backend. It is
// distinguished from network-level failures, which never produce an APIError.
type APIError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %s", e.Code)
	}
	return fmt.Sprintf("backend: %s: %s", e.Code, e.Message)
}

// NewAPIError builds an APIError, inferring a code from legacy message
// markers when the backend did not send one.
func NewAPIError(code ErrorCode, message string, httpStatus int) *APIError {
	if code == "" {
		code = inferCode(message)
	}
	return &APIError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func inferCode(message string) ErrorCode {
	if strings.Contains(strings.ToLower(message), legacyNonceMarker) {
		return CodeNonceExpired
	}
	return CodeInternal
}

// IsNonceExpired reports whether err is the recoverable anti-replay failure
// that entitles the orchestrator to one silent refresh-and-resubmit.
func IsNonceExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeNonceExpired
}

// IsNotFound reports whether err means the requested form does not exist or
// is no longer active.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeNotFound || apiErr.Code == CodeFormInactive
}

// AsAPIError unwraps err into an APIError when the failure was reported by
// the server. A false return means the call never produced a structured
// response: a network-level failure.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
