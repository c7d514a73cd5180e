package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrap_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrap_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ScrapWeightRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrap_weight_registered_kg_total",
			Help: "Total kilograms registered, by ledger side",
		},
		[]string{"origen"},
	)

	AuditWritesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrap_audit_writes_dropped_total",
			Help: "Audit rows not recorded because the history store was unavailable",
		},
	)
)
