// Package metrics exposes Prometheus counters for checklist edits, queries and exports
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	recordsSavedTotal *prometheus.CounterVec
	queriesTotal      prometheus.Counter
	queryAirports     prometheus.Histogram
	exportsTotal      *prometheus.CounterVec
	loginsTotal       *prometheus.CounterVec
}

// New creates and registers the service metrics
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.recordsSavedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readiness_records_saved_total",
			Help: "Total number of airport records written by the editor",
		},
		[]string{"mode", "status"}, // mode: replace, merge; status: success, error
	)

	m.queriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "readiness_queries_total",
		Help: "Total number of checklist queries",
	})

	m.queryAirports = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "readiness_query_airports_found",
		Help:    "Number of airports found per checklist query",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	m.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readiness_exports_total",
			Help: "Total number of spreadsheet exports",
		},
		[]string{"status"},
	)

	m.loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readiness_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	for _, c := range []prometheus.Collector{
		m.recordsSavedTotal, m.queriesTotal, m.queryAirports, m.exportsTotal, m.loginsTotal,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// The Record* methods are safe to call on a nil *Metrics.

// RecordSave records an editor write
func (m *Metrics) RecordSave(mode string, err error) {
	if m == nil {
		return
	}
	m.recordsSavedTotal.WithLabelValues(mode, status(err)).Inc()
}

// RecordQuery records a checklist query and how many airports it found
func (m *Metrics) RecordQuery(found int) {
	if m == nil {
		return
	}
	m.queriesTotal.Inc()
	m.queryAirports.Observe(float64(found))
}

// RecordExport records a spreadsheet export
func (m *Metrics) RecordExport(err error) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(status(err)).Inc()
}

// RecordLogin records a login attempt
func (m *Metrics) RecordLogin(ok bool) {
	if m == nil {
		return
	}
	s := "rejected"
	if ok {
		s = "accepted"
	}
	m.loginsTotal.WithLabelValues(s).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
