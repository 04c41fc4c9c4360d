package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scheduling_voicebot",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scheduling_voicebot",
			Name:      "booking_operations_total",
			Help:      "Booking operations by type and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	intentActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scheduling_voicebot",
			Name:      "intent_actions_total",
			Help:      "Dispatched intent actions by action label.",
		},
		[]string{"action"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingOps, intentActions)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBooking increments the booking operation counter.
func IncBooking(operation, outcome string) {
	bookingOps.WithLabelValues(operation, outcome).Inc()
}

// IncIntent increments the dispatched intent action counter.
func IncIntent(action string) {
	intentActions.WithLabelValues(action).Inc()
}
