package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics are the counters and histograms exposed on /metrics
type Metrics struct {
	Registry    *prometheus.Registry
	Comparisons *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "comparatrib_comparisons_total",
			Help: "Completed comparisons by best regime.",
		}, []string{"best"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "comparatrib_calculation_errors_total",
			Help: "Rejected calculations by error kind.",
		}, []string{"kind"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "comparatrib_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	m.Registry.MustRegister(
		m.Comparisons,
		m.Errors,
		m.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
