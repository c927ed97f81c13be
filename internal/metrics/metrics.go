// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lanshare"

// Operation results used as the "result" label.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultTooBig  = "too_large"
	ResultMissing = "not_found"
	ResultError   = "error"
)

// Metrics groups the collectors. Create it once per registry.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Operations          *prometheus.CounterVec
	UploadBytes         prometheus.Counter
	Compensations       prometheus.Counter
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
}

// New registers the collectors with reg. Passing prometheus.DefaultRegisterer
// exposes them through promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Sharing operations by name and result.",
		}, []string{"operation", "result"}),

		UploadBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes of successfully shared files.",
		}),

		Compensations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensations_total",
			Help:      "Blobs deleted because their metadata insert failed.",
		}),

		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_cache_hits_total",
			Help:      "File metadata lookups served from the in-memory cache.",
		}),

		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_cache_misses_total",
			Help:      "File metadata lookups that went to the metadata store.",
		}),
	}
}

// Observe counts one finished operation.
func (m *Metrics) Observe(operation, result string) {
	m.Operations.WithLabelValues(operation, result).Inc()
}
