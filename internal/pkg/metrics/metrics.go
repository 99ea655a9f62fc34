// Package metrics provides Prometheus observability metrics for the
// attendance engine: classification throughput, recalculation runs and
// HTTP request latency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// ClassificationsTotal counts classified employee/day pairs by resulting status.
var ClassificationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "attendance",
	Name:      "classifications_total",
	Help:      "Total employee/day pairs classified, by resulting status",
}, []string{"status"})

// PunchesIngestedTotal counts accepted punches by source.
var PunchesIngestedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "attendance",
	Name:      "punches_ingested_total",
	Help:      "Total punches accepted, by source",
}, []string{"source"})

// RecalculationRunsTotal counts completed recalculation runs.
var RecalculationRunsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "attendance",
	Name:      "recalculation_runs_total",
	Help:      "Total recalculation runs completed",
})

// RecalculationSkippedTotal counts employee/day pairs skipped during
// recalculation. A steady climb points at roster or policy gaps.
var RecalculationSkippedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "attendance",
	Name:      "recalculation_skipped_total",
	Help:      "Total employee/day pairs skipped during recalculation",
})

// RecalculationDurationSeconds tracks recalculation run latency.
var RecalculationDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "attendance",
	Name:      "recalculation_duration_seconds",
	Help:      "Time taken by one recalculation run",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
})

// ReportDurationSeconds tracks report build latency by report kind.
var ReportDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "report",
	Name:      "duration_seconds",
	Help:      "Time taken to build a report",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"kind"})

// HTTPRequestsTotal counts HTTP requests by route pattern and status class.
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route pattern and status class",
}, []string{"pattern", "status"})
