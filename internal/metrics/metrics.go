package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	weekBuilds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coach_calendar",
			Name:      "week_builds_total",
			Help:      "Count of week grids computed from the stores.",
		},
	)

	weekBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coach_calendar",
			Name:      "week_build_duration_seconds",
			Help:      "Time spent loading collections and classifying a week.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	rejectedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach_calendar",
			Name:      "rejected_records_total",
			Help:      "Count of malformed records dropped from a grid by kind.",
		},
		[]string{"kind"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach_calendar",
			Name:      "week_cache_lookups_total",
			Help:      "Week view cache lookups by result.",
		},
		[]string{"result"},
	)

	invalidations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coach_calendar",
			Name:      "week_cache_invalidations_total",
			Help:      "Count of change notifications that invalidated a coach's week views.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(weekBuilds, weekBuildDuration, rejectedRecords, cacheLookups, invalidations)
	})
}

func ObserveWeekBuild(seconds float64) {
	weekBuilds.Inc()
	weekBuildDuration.Observe(seconds)
}

func IncRejected(kind string) {
	rejectedRecords.WithLabelValues(kind).Inc()
}

func IncCacheHit() {
	cacheLookups.WithLabelValues("hit").Inc()
}

func IncCacheMiss() {
	cacheLookups.WithLabelValues("miss").Inc()
}

func IncInvalidation() {
	invalidations.Inc()
}
