// Package metrics holds the process prometheus collectors
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atlas_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	SourceLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_source_loads_total",
		Help: "Dataset loads by source and result",
	}, []string{"source", "result"})
	SourceLoadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atlas_source_load_duration_seconds",
		Help:    "Dataset load duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"source"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_cache_hits_total",
		Help: "Dataset cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_cache_misses_total",
		Help: "Dataset cache misses",
	})
	LayerFeatures = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "atlas_layer_features",
		Help: "Polygons, markers and points in the last rendered layer",
	}, []string{"layer", "kind"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		SourceLoadsTotal,
		SourceLoadDuration,
		CacheHitsTotal,
		CacheMissesTotal,
		LayerFeatures,
		RateLimitedTotal,
	)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
