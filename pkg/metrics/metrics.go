// Package metrics provides the Prometheus registry reference for catalog-bff.
// Metrics are defined next to the code that records them (cache, commerce, api)
// and registered through promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the service.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry scraped by the /metrics endpoint.
var Gatherer = prometheus.DefaultGatherer

// Handler serves Gatherer in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(Registry, promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{}))
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total{kind} (Counter): cache hits by key kind
//   - catalog_cache_misses_total{kind} (Counter): cache misses by key kind
//   - catalog_cache_errors_total{operation} (Counter): failed get/set/delete calls
//   - catalog_cache_write_bytes (Histogram): size of cached payloads
//
// Upstream Metrics (pkg/commerce):
//   - catalog_upstream_requests_total{operation, status} (Counter)
//   - catalog_upstream_request_duration_seconds{operation} (Histogram)
//   - catalog_upstream_errors_total{class} (Counter): client, server, rate_limit, network
//   - catalog_upstream_retries_total{error_class} (Counter)
//   - catalog_upstream_retry_exhausted_total{error_class} (Counter)
//
// Catalog Metrics (pkg/catalog):
//   - catalog_category_mapping_failures_total (Counter)
//
// HTTP Metrics (pkg/api):
//   - catalog_http_responses_total{route, status} (Counter)
//   - catalog_http_request_duration_seconds{route} (Histogram)
//
// Example Prometheus Queries:
//
//   # Category cache hit rate
//   sum(rate(catalog_cache_hits_total{kind="categoryList"}[5m])) /
//   (sum(rate(catalog_cache_hits_total{kind="categoryList"}[5m])) +
//    sum(rate(catalog_cache_misses_total{kind="categoryList"}[5m])))
//
//   # Upstream error rate by class
//   sum by (class) (rate(catalog_upstream_errors_total[5m]))
//
//   # P95 category endpoint latency
//   histogram_quantile(0.95, rate(catalog_http_request_duration_seconds_bucket{route="GET /api/categories"}[5m]))
