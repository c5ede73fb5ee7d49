package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymbook",
			Name:      "gateway_requests_total",
			Help:      "Remote API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymbook",
			Name:      "reservations_total",
			Help:      "Reservation attempts by regime and outcome.",
		},
		[]string{"regime", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(gatewayRequests, reservations)
	})
}

// IncGateway increments the counter for a remote operation.
func IncGateway(operation, outcome string) {
	gatewayRequests.WithLabelValues(operation, outcome).Inc()
}

// IncReservation increments the counter for a reservation attempt.
func IncReservation(regime, outcome string) {
	reservations.WithLabelValues(regime, outcome).Inc()
}
