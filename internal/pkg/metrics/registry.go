package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the metrics for a single CLI invocation. Each invocation
// builds its own so repeated runs inside one process (tests) never collide
// on the default registerer.
type Registry struct {
	reg *prometheus.Registry

	// HTTPRequests tracks registry API calls by method, route and status code
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration tracks registry API latency
	HTTPDuration *prometheus.HistogramVec

	// HTTPErrors tracks failed registry API calls by error type
	HTTPErrors *prometheus.CounterVec

	// CommandRuns tracks CLI command executions by outcome
	CommandRuns *prometheus.CounterVec
}

// NewRegistry creates a registry with all openproof metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openproof_http_requests_total",
				Help: "Total registry API requests by method, route, and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "openproof_http_request_duration_seconds",
				Help:    "Registry API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openproof_http_errors_total",
				Help: "Total registry API errors by route and error type",
			},
			[]string{"route", "error_type"},
		),
		CommandRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openproof_command_runs_total",
				Help: "Total CLI command runs by command and status",
			},
			[]string{"command", "status"},
		),
	}
}

// Gatherer exposes the underlying registry for inspection.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
