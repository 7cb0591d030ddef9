package apperror

import (
	"fmt"
	"net/http"
	"strconv"
)

// Type classifies an Error into the SDK's failure taxonomy.
type Type string

const (
	// TypeConfiguration: missing/empty credential or bad client setup,
	// detected before any network attempt.
	TypeConfiguration Type = "configuration"
	// TypeAPI: any non-2xx response from the TelePay API.
	TypeAPI Type = "api"
	// TypeParse: a 2xx response whose body does not match the expected
	// schema (malformed JSON, bad timestamp format).
	TypeParse Type = "parse"
	// TypeSignature: webhook signature mismatch.
	TypeSignature Type = "signature"
	// TypeNotImplemented: an operation deliberately not wired to the network.
	TypeNotImplemented Type = "not_implemented"
)

// Error is a structured error carried across the SDK boundary.
// StatusCode is only meaningful for TypeAPI and TypeSignature.
type Error struct {
	Type       Type   `json:"type"`
	StatusCode int    `json:"status_code,omitempty"`
	Code       string `json:"error"`
	Message    string `json:"message"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed in JSON)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("telepay: [%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("telepay: [%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against a sentinel built with the same Type (and Code,
// when the sentinel sets one), so callers can branch with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Code == "" || t.Code == e.Code)
}

// API builds a TypeAPI error from a normalized non-2xx response. An empty
// code falls back to the decimal rendering of the status code, matching the
// server's own behavior for bodies without an "error" field.
func API(statusCode int, code string, message string) *Error {
	if code == "" {
		code = strconv.Itoa(statusCode)
	}
	return &Error{
		Type:       TypeAPI,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// Parse wraps a schema mismatch found on an otherwise successful response.
func Parse(message string, err error) *Error {
	return &Error{
		Type:    TypeParse,
		Code:    "parse_error",
		Message: message,
		Err:     err,
	}
}

// Configuration builds a construction-time setup error.
func Configuration(message string) *Error {
	return &Error{
		Type:    TypeConfiguration,
		Code:    "configuration_error",
		Message: message,
	}
}

// ErrMissingAPIKey is the fatal construction error for an absent credential.
func ErrMissingAPIKey() *Error {
	return Configuration("secret API key is not set")
}

// ErrInvalidSignature is the webhook verifier's rejection. It deliberately
// carries no detail about which input failed to match.
func ErrInvalidSignature() *Error {
	return &Error{
		Type:       TypeSignature,
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_signature",
		Message:    "Invalid signature",
	}
}

// NotImplemented marks an operation that is intentionally not wired.
func NotImplemented(operation string) *Error {
	return &Error{
		Type:    TypeNotImplemented,
		Code:    "not_implemented",
		Message: fmt.Sprintf("%s is not implemented by this client", operation),
	}
}
