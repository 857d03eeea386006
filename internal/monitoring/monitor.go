package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for settled operations
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Monitor collects store metrics. A nil Monitor records nothing.
type Monitor struct {
	registry  *prometheus.Registry
	startTime time.Time

	actions    *prometheus.CounterVec
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewMonitor creates a monitor with its own registry
func NewMonitor() *Monitor {
	m := &Monitor{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "burger",
				Name:      "actions_dispatched_total",
				Help:      "Actions reduced by the store",
			},
			[]string{"slice", "action"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "burger",
				Name:      "operations_total",
				Help:      "Settled asynchronous operations",
			},
			[]string{"op", "outcome"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "burger",
				Name:      "operation_duration_seconds",
				Help:      "Time from pending to settled",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"op"},
		),
	}

	uptime := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "burger",
			Name:      "uptime_seconds",
			Help:      "Seconds since the monitor was created",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	m.registry.MustRegister(m.actions, m.operations, m.durations, uptime)
	return m
}

// RecordAction counts one reduced action
func (m *Monitor) RecordAction(slice, action string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(slice, action).Inc()
}

// RecordOperation counts a settled operation and observes its duration
func (m *Monitor) RecordOperation(op string, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSucceeded
	if !ok {
		outcome = OutcomeFailed
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.durations.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
