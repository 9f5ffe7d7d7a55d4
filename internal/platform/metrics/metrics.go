package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the ledger collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	confirmations    *prometheus.CounterVec
	confirmedEntries prometheus.Counter
	closes           *prometheus.CounterVec
	fileMoveFailures prometheus.Counter
	stagedEntries    prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_confirmations_total",
			Help: "Confirmation attempts by outcome.",
		}, []string{"outcome"}),
		confirmedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_entries_confirmed_total",
			Help: "Entries promoted from staging into the permanent ledger.",
		}),
		closes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_closes_total",
			Help: "Period close invocations by outcome.",
		}, []string{"outcome"}),
		fileMoveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_file_move_failures_total",
			Help: "Upload files that could not be moved after a confirmation.",
		}),
		stagedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_staged_entries_total",
			Help: "Entries appended to the staging area.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(m.confirmations, m.confirmedEntries, m.closes, m.fileMoveFailures, m.stagedEntries,
		m.httpRequests, m.httpDuration)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveConfirmation(outcome string, promoted int) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(outcome).Inc()
	m.confirmedEntries.Add(float64(promoted))
}

func (m *Metrics) ObserveClose(outcome string) {
	if m == nil {
		return
	}
	m.closes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFileMoveFailures(n int) {
	if m == nil || n == 0 {
		return
	}
	m.fileMoveFailures.Add(float64(n))
}

func (m *Metrics) ObserveStaged(n int) {
	if m == nil {
		return
	}
	m.stagedEntries.Add(float64(n))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path, status).Observe(seconds)
}
