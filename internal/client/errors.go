package client

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoToken is returned when no API token can be resolved from the
// environment or the token file.
var ErrNoToken = errors.New("no API token found; run 'openproof register' or set OPENPROOF_TOKEN")

// HTTPError is returned when the registry answers with a non-2xx status.
// Body holds the raw response body, unmodified.
type HTTPError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

// TransportError wraps a failure below HTTP: DNS, connection refused, TLS,
// or the request deadline expiring.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request was cut off by its deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// MissingFieldError is returned when a 2xx response lacks a field the
// endpoint contract requires. Raw is the response body for diagnosis.
type MissingFieldError struct {
	Endpoint string
	Field    string
	Raw      string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: response missing %q: %s", e.Endpoint, e.Field, e.Raw)
}
