package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/devilmonastery/openproof/internal/pkg/logger"
	"github.com/devilmonastery/openproof/internal/pkg/metrics"
)

// instrumentedTransport wraps an http.RoundTripper to log and collect metrics
// on registry API calls
type instrumentedTransport struct {
	base    http.RoundTripper
	logger  *slog.Logger
	metrics *metrics.Registry
}

// NewInstrumentedTransport creates a transport wrapper that logs every
// registry call at debug level and records it in reg. reg may be nil.
func NewInstrumentedTransport(base http.RoundTripper, logger *slog.Logger, reg *metrics.Registry) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &instrumentedTransport{base: base, logger: logger, metrics: reg}
}

// RoundTrip implements http.RoundTripper
func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	route := normalizeRoute(req.URL.Path)
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	errorType := ""
	if err != nil || statusCode < 200 || statusCode >= 300 {
		errorType = classifyError(statusCode, err)
	}
	t.metrics.RecordHTTPRequest(req.Method, route, statusCode, duration, errorType)

	log := logger.WithEndpoint(t.logger, req.Method, route)
	attrs := []any{
		"status", statusCode,
		"duration_ms", duration.Milliseconds(),
	}
	if err != nil {
		log.Debug("registry request failed", append(attrs, "error", err, "error_type", errorType)...)
	} else {
		log.Debug("registry request", attrs...)
	}

	return resp, err
}

// normalizeRoute trims trailing slashes so "/documents/" and "/documents"
// share a label
func normalizeRoute(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	return "/" + strings.Trim(path, "/")
}

// classifyError categorizes registry API errors for logs and metrics
func classifyError(statusCode int, err error) string {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "timeout"
		}
		if errors.Is(err, context.Canceled) {
			return "canceled"
		}
		errStr := err.Error()
		switch {
		case strings.Contains(errStr, "timeout"):
			return "timeout"
		case strings.Contains(errStr, "no such host"):
			return "dns"
		case strings.Contains(errStr, "connection"):
			return "connection"
		case strings.Contains(errStr, "tls") || strings.Contains(errStr, "x509"):
			return "tls"
		default:
			return "network"
		}
	}

	switch {
	case statusCode == 400:
		return "bad_request"
	case statusCode == 401:
		return "unauthorized"
	case statusCode == 403:
		return "forbidden"
	case statusCode == 404:
		return "not_found"
	case statusCode == 409:
		return "conflict"
	case statusCode == 429:
		return "rate_limited"
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "client_error"
	default:
		return "unknown"
	}
}
