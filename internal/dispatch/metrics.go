package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ItemsTotal tracks terminal item outcomes by status
	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_items_total",
			Help: "Total number of items by terminal status",
		},
		[]string{"status"},
	)

	// AttemptsTotal tracks service call attempts
	AttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_attempts_total",
			Help: "Total number of service call attempts",
		},
	)

	// AttemptErrorsTotal tracks failed service call attempts
	AttemptErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_attempt_errors_total",
			Help: "Total number of failed service call attempts",
		},
	)

	// BreakerTrips tracks circuit breaker trips
	BreakerTrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_breaker_trips_total",
			Help: "Total number of circuit breaker trips",
		},
	)

	// InflightCalls tracks concurrent service calls
	InflightCalls = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatcher_inflight_calls",
			Help: "Number of service calls currently in flight",
		},
	)

	// CallLatency tracks service call latency
	CallLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatcher_call_latency_seconds",
			Help:    "Service call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
