package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CategoryMappingFailures counts category trees dropped after a mapping panic.
var CategoryMappingFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_category_mapping_failures_total",
		Help: "Total number of category trees that failed to map",
	},
)
