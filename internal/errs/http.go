package errs

import (
	"errors"
	"strings"
)

// FieldError represents a field-level binding error.
// Example:
//
//	{ "field": "id", "error": "is required" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "id").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// Only Message, Detail and Errors are serialized; Status and Code drive
// the response status line and the logs.
//
// Fields:
//   - Status: HTTP status code.
//   - Code: machine-friendly error code (e.g. "NOT_FOUND"), logged only.
//   - Message: human-friendly message.
//   - Detail: raw underlying error text, sent as "error".
//   - Errors: list of per-field errors (binding).
type HTTPError struct {
	Status  int          `json:"-"`
	Code    string       `json:"-"`
	Message string       `json:"message"`
	Detail  string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`

	// cause is the original error, kept for logs and errors.Unwrap.
	cause error
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also an *HTTPError.
//
// It does NOT compare Code/Status/etc, only the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// StatusOf returns the status carried by err, or 0 when err is not an HTTPError.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
