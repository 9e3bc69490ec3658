// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamFetches counts remote resource fetches by resource kind
	// (playlist, epg) and outcome (ok, error).
	UpstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptvd_upstream_fetches_total",
		Help: "Total number of upstream resource fetches",
	}, []string{"resource", "outcome"})

	// ParseFailures counts parser errors by resource kind.
	ParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptvd_parse_failures_total",
		Help: "Total number of playlist/EPG parse failures",
	}, []string{"resource"})

	// StorageOperations counts persistence operations by backend,
	// operation and outcome.
	StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptvd_storage_operations_total",
		Help: "Total number of storage operations",
	}, []string{"backend", "operation", "outcome"})
)

// ObserveStorage records one storage operation result.
func ObserveStorage(backend, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StorageOperations.WithLabelValues(backend, operation, outcome).Inc()
}
