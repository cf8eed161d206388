package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 缓存观测指标：命中/未命中按后端区分，降级与 compute 失败单独计数。
var (
	metricHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunekit_cache_hits_total",
		Help: "Cache hits by backend.",
	}, []string{"backend"})

	metricMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunekit_cache_misses_total",
		Help: "Cache misses by backend, including degraded reads.",
	}, []string{"backend"})

	metricFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tunekit_cache_fallbacks_total",
		Help: "Operations that fell back from the remote to the local backend.",
	})

	metricComputeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tunekit_cache_compute_errors_total",
		Help: "getOrSet compute callbacks that returned an error.",
	})
)
