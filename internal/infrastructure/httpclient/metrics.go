package httpclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_provider_requests_total",
			Help: "Total number of outbound payment provider requests",
		},
		[]string{"provider", "operation", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_provider_request_duration_seconds",
			Help:    "Latency of outbound payment provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payment_provider_circuit_breaker_state",
			Help: "Current state of the provider circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, breakerState)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
