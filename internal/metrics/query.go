package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query, oracle and sales-cache Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tilequery",
			Name:      "queries_total",
			Help:      "Total number of answered queries",
		},
		[]string{"route"}, // "search" / "oracle" / "unavailable"
	)

	RankingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tilequery",
			Name:      "ranking_duration_seconds",
			Help:      "Candidate ranking duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	OracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tilequery",
			Name:      "oracle_requests_total",
			Help:      "Total number of oracle requests",
		},
		[]string{"model", "status"},
	)

	OracleRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tilequery",
			Name:      "oracle_request_duration_seconds",
			Help:      "Oracle request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	SalesCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tilequery",
			Name:      "sales_cache_total",
			Help:      "Sales data cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// RegisterQueryMetrics registers query, oracle and cache metrics.
// Called explicitly from the composition root (no init()).
func RegisterQueryMetrics() {
	prometheus.MustRegister(
		QueriesTotal,
		RankingDuration,
		OracleRequestsTotal,
		OracleRequestDuration,
		SalesCacheTotal,
	)
}
