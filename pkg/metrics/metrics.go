// Package metrics provides Prometheus collectors for the completion
// pipeline. A CLI process has no scrape endpoint, so collected values are
// flushed to a node-exporter textfile with WriteTextfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for completion latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// CacheLookupsTotal counts cache lookups by result (hit/miss).
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sgpt_cache_lookups_total",
			Help: "Cache lookups",
		},
		[]string{"result"},
	)

	// CacheEvictionsTotal counts entries evicted by the LRU bound.
	CacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sgpt_cache_evictions_total",
			Help: "Cache evictions",
		},
	)

	// RequestsTotal counts remote completion requests by transport mode and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sgpt_requests_total",
			Help: "Remote completion requests",
		},
		[]string{"mode", "status"},
	)

	// RequestDuration records the time from request to end of sequence.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sgpt_request_duration_seconds",
			Help:    "Remote completion duration",
			Buckets: LLMBuckets,
		},
		[]string{"mode"},
	)

	// FragmentsTotal counts fragments delivered to callers.
	FragmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sgpt_fragments_total",
			Help: "Fragments emitted",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CacheLookupsTotal,
		CacheEvictionsTotal,
		RequestsTotal,
		RequestDuration,
		FragmentsTotal,
	)
}

// WriteTextfile writes all registered metrics to path in the text exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
