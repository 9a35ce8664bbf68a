package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AppointmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workshop_appointment_transitions_total",
			Help: "Appointment state changes by target state.",
		},
		[]string{"to"},
	)

	BookingConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workshop_booking_conflicts_total",
			Help: "Bookings rejected because the interval overlaps a confirmed appointment.",
		},
		[]string{"operation"},
	)

	AvailabilityDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "workshop_availability_duration_seconds",
			Help:    "Time spent computing free slots.",
			Buckets: prometheus.DefBuckets,
		},
	)

	AvailabilityCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workshop_availability_cache_lookups_total",
			Help: "Availability cache lookups by result.",
		},
		[]string{"result"},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workshop_audit_events_dropped_total",
			Help: "Audit events discarded because the dispatch queue was full.",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workshop_http_requests_total",
			Help: "HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workshop_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func RecordTransition(to string) {
	AppointmentTransitions.WithLabelValues(to).Inc()
}

func RecordConflict(operation string) {
	BookingConflicts.WithLabelValues(operation).Inc()
}
