package fetch

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is wrapped by every error Fetch returns once the retry
// policy is exhausted.
var ErrFetchFailed = errors.New("fetch failed")

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeSitemap ErrorCode = "SITEMAP"
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	ErrCodeStatus  ErrorCode = "HTTP_STATUS"
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	ErrCodeParse   ErrorCode = "PARSE_ERROR"
)

// Error wraps fetch failures with the URL and a classification code.
type Error struct {
	Code       ErrorCode
	Message    string
	URL        string
	StatusCode int
	Underlying error
	Retry      bool
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// GetStatusCode returns the HTTP status, or 0 for non-HTTP failures.
func (e *Error) GetStatusCode() int {
	return e.StatusCode
}

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool {
	return e.Retry
}

// NewError creates a new Error
func NewError(code ErrorCode, url, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		URL:        url,
		Underlying: err,
	}
}

// WithRetry marks the error as retryable
func (e *Error) WithRetry() *Error {
	e.Retry = true
	return e
}

// WithStatus records the HTTP status code
func (e *Error) WithStatus(code int) *Error {
	e.StatusCode = code
	return e
}
