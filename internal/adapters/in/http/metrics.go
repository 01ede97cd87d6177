package http

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for monitoring reconciliation traffic
var (
	statusCallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "status_callbacks_total",
			Help: "Total number of courier status callbacks received",
		},
	)

	statusCallbacksAppliedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "status_callbacks_applied_total",
			Help: "Total number of callbacks that advanced an order's status",
		},
	)

	statusCallbacksSuppressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "status_callbacks_suppressed_total",
			Help: "Total number of callbacks suppressed as idempotent repeats",
		},
	)

	statusCallbacksIgnoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "status_callbacks_ignored_total",
			Help: "Total number of callbacks stopped by an eligibility guard",
		},
	)

	statusCallbacksRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "status_callbacks_rejected_total",
			Help: "Total number of callbacks refused by the transition table or dropped at a final state",
		},
	)

	statusCallbacksUnknownTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "status_callbacks_unknown_total",
			Help: "Total number of callbacks carrying an unknown vendor status",
		},
	)
)

var registerMetricsOnce sync.Once

// registerMetrics registers all Prometheus metrics once.
func registerMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(statusCallbacksTotal)
		prometheus.MustRegister(statusCallbacksAppliedTotal)
		prometheus.MustRegister(statusCallbacksSuppressedTotal)
		prometheus.MustRegister(statusCallbacksIgnoredTotal)
		prometheus.MustRegister(statusCallbacksRejectedTotal)
		prometheus.MustRegister(statusCallbacksUnknownTotal)
	})
}
