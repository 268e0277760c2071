// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reservations_created_total",
		Help: "Total number of confirmed reservations created",
	})

	ReservationsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reservations_updated_total",
		Help: "Total number of reservations modified",
	})

	ReservationsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reservations_cancelled_total",
		Help: "Total number of reservations cancelled",
	})

	ReservationConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reservation_conflicts_total",
		Help: "Total number of bookings rejected because of overlapping dates",
	})

	PaymentsCapturedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_payments_captured_total",
		Help: "Total number of captured payments",
	})

	PaymentsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_payments_rejected_total",
		Help: "Total number of rejected payment attempts",
	}, []string{"reason"})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_events_publish_failed_total",
		Help: "Total number of domain events that could not be published",
	}, []string{"type"})

	BookingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rental_booking_latency_seconds",
		Help:    "Latency of the booking transaction",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
