// Package metrics tracks operational counters and timings for the scrape
// pipelines and exposes them in the Prometheus exposition format.
//
// All methods are safe for concurrent use and are no-ops on a nil *Metrics,
// so components can be constructed without metrics in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cityevents"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	fetches   *prometheus.CounterVec
	persisted *prometheus.CounterVec
	records   *prometheus.CounterVec
	timings   *prometheus.HistogramVec
}

// New creates a metrics tracker with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Outbound page fetches by page kind and result",
		}, []string{"kind", "result"}),
		persisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persisted_records_total",
			Help:      "Event rows written by result",
		}, []string{"result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extracted_records_total",
			Help:      "Records produced by each extraction pipeline",
		}, []string{"pipeline"}),
		timings: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent per operation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	m.registry.MustRegister(m.fetches, m.persisted, m.records, m.timings)
	return m
}

// ObserveFetch counts one fetch of the given page kind ("city", "detail", ...).
func (m *Metrics) ObserveFetch(kind string, err error) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(kind, result(err)).Inc()
}

// ObservePersist counts one persisted (or failed) event row.
func (m *Metrics) ObservePersist(err error) {
	if m == nil {
		return
	}
	m.persisted.WithLabelValues(result(err)).Inc()
}

// AddRecords adds n extracted records to a pipeline's counter.
func (m *Metrics) AddRecords(pipeline string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.records.WithLabelValues(pipeline).Add(float64(n))
}

// RecordTiming records a duration measurement for an operation.
func (m *Metrics) RecordTiming(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.timings.WithLabelValues(operation).Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
