package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_finder_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"backend", "result"},
	)

	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_finder_cache_evictions_total",
			Help: "Total number of in-memory cache entries evicted or expired",
		},
	)
)
