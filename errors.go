package spoadmin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrNoCredentials = errors.New("spoadmin: no credentials configured")
	ErrNoAdminURL    = errors.New("spoadmin: no admin URL configured")
)

// Server error-code discriminants. The admin endpoint reports a structured
// code alongside the HTTP status; errors are classified on the code, never
// on message text.
const (
	errCodeConnectionClosed = "ServerConnectionClosed"
	errCodeSiteNotFound     = "SiteNotFound"
	errCodeWebNotFound      = "WebNotFound"
)

// APIError represents a general tenant admin API error.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	RequestID  string `json:"requestId,omitempty"`
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("spoadmin: API error %d: %s (request_id=%s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("spoadmin: API error %d: %s", e.StatusCode, e.Message)
}

// AuthenticationError indicates authentication failure (401/403).
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("spoadmin: authentication failed: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *AuthenticationError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// NotFoundError indicates the requested resource was not found.
type NotFoundError struct {
	APIError
	ResourceType string
	ResourceURL  string
}

func (e *NotFoundError) Error() string {
	if e.ResourceType != "" && e.ResourceURL != "" {
		return fmt.Sprintf("spoadmin: %s not found: %s", e.ResourceType, e.ResourceURL)
	}
	return fmt.Sprintf("spoadmin: resource not found: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *NotFoundError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// ValidationError indicates invalid request data (400).
type ValidationError struct {
	APIError
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("spoadmin: validation error: %s (fields: %v)", e.Message, e.Fields)
	}
	return fmt.Sprintf("spoadmin: validation error: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ValidationError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// ThrottledError indicates the tenant is being throttled (429).
type ThrottledError struct {
	APIError
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("spoadmin: request throttled, retry after %s", e.RetryAfter)
	}
	return "spoadmin: request throttled"
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ThrottledError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// ServerError indicates an internal server error (5xx).
type ServerError struct {
	APIError
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("spoadmin: server error %d: %s", e.StatusCode, e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ServerError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// ConnectionClosedError indicates the remote session was torn down while a
// long-running action was still being tracked server-side. The action's
// side effect has usually landed by the time this surfaces, so the
// operation poller treats this class as transient.
type ConnectionClosedError struct {
	APIError
}

func (e *ConnectionClosedError) Error() string {
	return fmt.Sprintf("spoadmin: connection closed by server: %s", e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ConnectionClosedError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// TimeoutError indicates a bounded wait on a long-running operation was
// exhausted before the server reported completion.
type TimeoutError struct {
	OperationID string
	Polls       int
	Elapsed     time.Duration
	Err         error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("spoadmin: timed out waiting for operation %s after %d polls (%s)",
		e.OperationID, e.Polls, e.Elapsed.Round(time.Millisecond))
}

// Unwrap returns the underlying cause, typically context.DeadlineExceeded.
func (e *TimeoutError) Unwrap() error { return e.Err }

// IsConnectionClosed reports whether err belongs to the connection-closed
// class: either the server reported the ServerConnectionClosed code, or the
// transport observed the TCP session being torn down mid-call.
func IsConnectionClosed(err error) bool {
	var closed *ConnectionClosedError
	if errors.As(err, &closed) {
		return true
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

// parseError converts an HTTP response into the appropriate error type.
func parseError(statusCode int, body []byte, headers http.Header) error {
	base := APIError{
		StatusCode: statusCode,
		RequestID:  headers.Get("X-Request-ID"),
	}

	// Try to parse structured JSON error response
	if err := json.Unmarshal(body, &base); err != nil {
		// Fallback to raw body if not valid JSON
		base.Message = string(body)
	}

	// Code discriminant takes precedence over the HTTP status: the server
	// reports ServerConnectionClosed with varying statuses depending on
	// where in the request lifecycle the session died.
	if base.Code == errCodeConnectionClosed {
		return &ConnectionClosedError{APIError: base}
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &AuthenticationError{APIError: base}
	case statusCode == http.StatusNotFound:
		return &NotFoundError{APIError: base}
	case statusCode == http.StatusBadRequest:
		validationErr := &ValidationError{APIError: base}
		// Best-effort parse of field-level validation errors
		var fieldData struct {
			Fields map[string]string `json:"fields"`
		}
		if json.Unmarshal(body, &fieldData) == nil && len(fieldData.Fields) > 0 {
			validationErr.Fields = fieldData.Fields
		}
		return validationErr
	case statusCode == http.StatusTooManyRequests:
		return &ThrottledError{
			APIError:   base,
			RetryAfter: parseRetryAfter(headers.Get("Retry-After")),
		}
	case statusCode >= http.StatusInternalServerError:
		return &ServerError{APIError: base}
	default:
		return &base
	}
}

// parseRetryAfter parses the Retry-After header value.
// It handles both seconds (integer) and HTTP-date formats.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	// Try parsing as seconds first
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP-date (RFC 1123)
	if t, err := time.Parse(time.RFC1123, value); err == nil {
		duration := time.Until(t)
		if duration > 0 {
			return duration
		}
	}

	return 0
}
