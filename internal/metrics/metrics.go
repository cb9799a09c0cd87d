// Package metrics exposes Prometheus instruments for the API client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks outgoing API requests by method and status class
	// ("2xx", "4xx", "5xx", "error" for transport failures).
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_api_requests_total",
			Help: "Total portal API requests by method and status class",
		},
		[]string{"method", "status"},
	)

	// RequestDuration tracks API request latency in seconds.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_api_request_duration_seconds",
			Help:    "Portal API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method"},
	)

	// SessionExpirations tracks forced sign-outs caused by 401 responses.
	SessionExpirations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_session_expirations_total",
			Help: "Total sessions cleared because the server rejected the token",
		},
	)
)
