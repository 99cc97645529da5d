// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	OrderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_requests_total",
			Help: "Total number of order requests by phase and outcome",
		},
		[]string{"phase", "outcome"},
	)

	OrderRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_request_errors_total",
			Help: "Total number of failed order requests by phase and error code",
		},
		[]string{"phase", "error_code"},
	)

	OrderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_request_duration_seconds",
			Help:    "Round trip duration of order requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	DispatchTasksInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_tasks_in_flight",
			Help: "Number of batch tasks currently running per phase",
		},
		[]string{"phase"},
	)

	ServerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_server_requests_total",
			Help: "Total number of requests handled by the order service",
		},
		[]string{"route", "status"},
	)

	OrderCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_cache_lookups_total",
			Help: "Order cache lookups by result",
		},
		[]string{"result"},
	)
)
