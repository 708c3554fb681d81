package metrics

import (
	"strconv"
	"time"
)

// RecordHTTPRequest records registry API call metrics consistently
// route: normalized path without query (e.g., "/register", "/documents")
// statusCode: HTTP status, 0 if no response was received
// errorType: classification from the transport, "" on success
func (r *Registry) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration, errorType string) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if errorType != "" {
		r.HTTPErrors.WithLabelValues(route, errorType).Inc()
	}
}

// RecordCommand records the outcome of a CLI command.
func (r *Registry) RecordCommand(command string, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.CommandRuns.WithLabelValues(command, status).Inc()
}
