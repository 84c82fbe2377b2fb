package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mealdbRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_finder_mealdb_requests_total",
			Help: "Total number of TheMealDB API requests",
		},
		[]string{"endpoint", "result"},
	)

	mealdbRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_finder_mealdb_request_duration_seconds",
			Help:    "TheMealDB API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	mealdbSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_finder_mealdb_skipped_total",
			Help: "Total number of meals skipped because the detail lookup failed",
		},
	)
)
