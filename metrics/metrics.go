package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "atlastours",
			Name:      "bookings_created_total",
			Help:      "Bookings persisted by the public endpoint.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "atlastours",
			Name:      "booking_conflicts_total",
			Help:      "Booking requests rejected as duplicates.",
		},
	)

	notificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "atlastours",
			Name:      "notification_failures_total",
			Help:      "Best-effort admin notifications that failed to deliver.",
		},
	)

	breakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "atlastours",
			Name:      "storage_breaker_state",
			Help:      "Database circuit breaker state: 0 closed, 1 open, 2 half-open.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingConflicts, notificationFailures, breakerState)
	})
}

// IncBookingCreated counts a persisted booking.
func IncBookingCreated() { bookingsCreated.Inc() }

// IncBookingConflict counts a duplicate-booking rejection.
func IncBookingConflict() { bookingConflicts.Inc() }

// IncNotificationFailure counts a failed best-effort notification.
func IncNotificationFailure() { notificationFailures.Inc() }

// SetBreakerState records the storage breaker state.
func SetBreakerState(state float64) { breakerState.Set(state) }
