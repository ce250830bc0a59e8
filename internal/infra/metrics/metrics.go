package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "confbook",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "confbook",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	weatherFallback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "confbook",
			Name:      "weather_fallback_total",
			Help:      "Count of bookings priced with the fallback surcharge because no forecast was available.",
		},
	)

	notificationPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "confbook",
			Name:      "notification_published_total",
			Help:      "Count of notification events by publish outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, weatherFallback, notificationPublished)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncWeatherFallback() {
	weatherFallback.Inc()
}

func IncNotificationPublished(outcome string) {
	notificationPublished.WithLabelValues(outcome).Inc()
}
