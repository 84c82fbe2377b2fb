package recipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 載入
	recipeLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_finder_loads_total",
			Help: "Total number of recipe catalog loads",
		},
		[]string{"source", "result"},
	)
	recipeLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_finder_load_duration_seconds",
			Help:    "Duration of recipe catalog loads in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"source"},
	)
	catalogRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_finder_catalog_recipes",
			Help: "Number of recipes in the current catalog snapshot",
		},
	)
	catalogIngredients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_finder_catalog_ingredients",
			Help: "Number of distinct ingredient tokens in the current catalog snapshot",
		},
	)

	// 搜尋
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_finder_searches_total",
			Help: "Total number of recipe searches",
		},
		[]string{"mode"},
	)
	searchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_finder_search_results",
			Help:    "Number of recipes returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)
)
