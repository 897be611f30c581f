// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consign_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "consign_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CaseMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consign_case_mutations_total",
			Help: "Committed case mutations by action.",
		},
		[]string{"action"},
	)

	ScannerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consign_scanner_calls_total",
			Help: "Scanner calls by source (image, text) and result (ok, error).",
		},
		[]string{"source", "result"},
	)

	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consign_messages_total",
			Help: "Outbound agent messages by provider and result.",
		},
		[]string{"provider", "result"},
	)
)

// Result turns an error into the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
