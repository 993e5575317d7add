package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(eventsReceivedTotal) }

var eventsReceivedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "events_received_total",
		Help: "Site events accepted by the ingest API, labeled by kind and outcome.",
	},
	[]string{"kind", "result"}, // result: 'queued', 'rejected', 'dropped'
)

func IncEvent(kind, result string) {
	eventsReceivedTotal.WithLabelValues(norm(kind), norm(result)).Inc()
}
