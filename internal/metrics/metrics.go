package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_dashboard_provider_calls_total",
			Help: "Total weather provider API calls",
		},
		[]string{"endpoint", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_dashboard_provider_latency_seconds",
			Help:    "Weather provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_dashboard_cache_hits_total",
			Help: "Forecast cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_dashboard_cache_misses_total",
			Help: "Forecast cache misses, including TTL expiries",
		},
	)

	DemoFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_dashboard_demo_fallbacks_total",
			Help: "Sessions downgraded from live to demo mode after credential rejection",
		},
	)

	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_dashboard_refresh_runs_total",
			Help: "Background refresh job runs",
		},
		[]string{"status"},
	)
)
