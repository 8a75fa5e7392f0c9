package zoho

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common static errors.
var (
	ErrNoMoreItems          = errors.New("no more items")
	ErrEmptyResponse        = errors.New("empty response")
	ErrConfigRequired       = errors.New("config is required")
	ErrPortalNotFound       = errors.New("portal not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrNoTokenProvider      = errors.New("no token provider configured")
	ErrCacheMiss            = errors.New("key not found")
	ErrCacheDisabled        = errors.New("cache disabled")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
)

// TransportError is a network-level failure. It is never retried by the iterator.
type TransportError struct {
	Method string
	URI    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URI, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is returned for any non-2xx response.
type ServerError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s (code: %d)", e.StatusCode, e.Message, e.Code)
	}

	return fmt.Sprintf("server error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// DecodeError is returned when a body does not match the expected shape.
type DecodeError struct {
	Target string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Target, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DisallowedMethodError is returned before any network call when a resource does not
// support the requested HTTP verb.
type DisallowedMethodError struct {
	Method   string
	Resource string
}

// Error implements the error interface.
func (e *DisallowedMethodError) Error() string {
	return fmt.Sprintf("method %s is not allowed on %s", e.Method, e.Resource)
}

// RefreshFailure is returned when a valid access token could not be obtained.
type RefreshFailure struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *RefreshFailure) Error() string {
	return fmt.Sprintf("token refresh failed during %s: %v", e.Stage, e.Err)
}

// Unwrap returns the cause.
func (e *RefreshFailure) Unwrap() error {
	return e.Err
}

// errorEnvelope is the error body shape of the Zoho Projects API.
type errorEnvelope struct {
	Error *ServerError `json:"error"`
}

// ParseServerError builds a ServerError from a non-2xx status and body.
// Bodies that are not in the Zoho error format still yield a ServerError.
func ParseServerError(statusCode int, body []byte) *ServerError {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = statusCode

		return envelope.Error
	}

	return &ServerError{StatusCode: statusCode}
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsRateLimited checks if the server rejected the request for exceeding its rate limit.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	serverErr := &ServerError{}
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode == status
	}

	return false
}
