package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(notificationsTotal, dispatchLatencyMs)
}

var (
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Dispatch outcomes by route, backend and status (sent/skipped/failed).",
		},
		[]string{"route", "backend", "status"},
	)

	dispatchLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_dispatch_latency_ms",
			Help:    "Backend round-trip latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"backend"},
	)
)

func IncDispatch(route, backend, status string) {
	if backend == "" {
		backend = "none"
	}
	notificationsTotal.WithLabelValues(norm(route), norm(backend), norm(status)).Inc()
}

func ObserveDispatchLatency(backend string, d time.Duration) {
	dispatchLatencyMs.WithLabelValues(norm(backend)).Observe(float64(d.Milliseconds()))
}
