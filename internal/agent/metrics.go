package agent

import "github.com/prometheus/client_golang/prometheus"

var (
	// intentsRouted counts routing decisions by intent label. Cardinality is
	// the fixed Intent set.
	intentsRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_intents_total",
			Help: "Total routed intents by kind.",
		},
		[]string{"intent"},
	)

	// bookingsConfirmed counts successful slot confirmations.
	bookingsConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_bookings_confirmed_total",
			Help: "Total successfully confirmed bookings.",
		},
	)

	// activeSessions gauges conversations with a live worker goroutine.
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "agent_active_sessions",
			Help: "Current number of live conversation sessions.",
		},
	)
)

func init() {
	prometheus.MustRegister(intentsRouted, bookingsConfirmed, activeSessions)
}
