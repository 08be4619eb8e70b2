package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values.
const (
	LblTable = "table"
	LblJoint = "joint"

	LblOK    = "ok"
	LblError = "error"

	LblOptimized = "optimized"
	LblFallback  = "fallback"
)

var (
	// StatsBuildDuration observes how long one table's or one table pair's
	// statistics took to build.
	StatsBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "costdb",
			Subsystem: "statistics",
			Name:      "build_duration_seconds",
			Help:      "Bucketed histogram of statistics build time (s)",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 20),
		}, []string{"type"})

	// StatsBuildCounter counts ComputeStatistics runs by outcome.
	StatsBuildCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costdb",
			Subsystem: "statistics",
			Name:      "build_total",
			Help:      "Counter of statistics builds",
		}, []string{"result"})

	JoinOrderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "costdb",
			Subsystem: "optimizer",
			Name:      "join_order_duration_seconds",
			Help:      "Bucketed histogram of join ordering time (s)",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 20),
		})

	// JoinOrderCounter counts join ordering requests by outcome.
	JoinOrderCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costdb",
			Subsystem: "optimizer",
			Name:      "join_order_total",
			Help:      "Counter of join ordering requests",
		}, []string{"result"})

	// PlanCacheEntries observes how many condition subsets were memoized by
	// one ordering run.
	PlanCacheEntries = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "costdb",
			Subsystem: "optimizer",
			Name:      "plan_cache_entries",
			Help:      "Bucketed histogram of plan cache size per ordering run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 20),
		})
)

// RegisterMetrics registers all costdb metrics with registerer.
func RegisterMetrics(registerer prometheus.Registerer) {
	registerer.MustRegister(StatsBuildDuration)
	registerer.MustRegister(StatsBuildCounter)
	registerer.MustRegister(JoinOrderDuration)
	registerer.MustRegister(JoinOrderCounter)
	registerer.MustRegister(PlanCacheEntries)
}
