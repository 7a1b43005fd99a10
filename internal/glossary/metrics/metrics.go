package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteCallsTotal tracks remote call attempts per operation and outcome
	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glossary_remote_calls_total",
			Help: "Total number of remote call attempts",
		},
		[]string{"operation", "outcome"},
	)

	// RemoteRetriesTotal tracks retried failures per operation and error class
	RemoteRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glossary_remote_retries_total",
			Help: "Total number of retried remote call failures",
		},
		[]string{"operation", "class"},
	)

	// RemoteCallDuration tracks remote call latency
	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glossary_remote_call_duration_seconds",
			Help:    "Remote call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ItemsDiscovered tracks documents found during traversal
	ItemsDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glossary_items_discovered_total",
			Help: "Total number of documents discovered under the root folder",
		},
	)

	// ItemsProcessed tracks documents summarized and written
	ItemsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glossary_items_processed_total",
			Help: "Total number of documents summarized and appended",
		},
	)

	// RunDuration tracks end-to-end run time
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glossary_run_duration_seconds",
			Help:    "Glossary run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"status"},
	)
)
