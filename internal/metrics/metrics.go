// Package metrics provides Prometheus metrics for reelbox.
// Labels are bounded enums; never a path or a profile name.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheLookups counts cache reads by kind (dir, meta) and result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelbox_cache_lookups_total",
		Help: "Smart cache lookups, by kind and result.",
	}, []string{"kind", "result"})

	// CacheInvalidations counts directory entries dropped by the file watcher.
	CacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelbox_cache_watch_invalidations_total",
		Help: "Directory cache entries invalidated by filesystem events.",
	})

	// CacheEvictions counts expired entries removed by sweeps.
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelbox_cache_evictions_total",
		Help: "Expired cache entries removed.",
	})

	// Scans counts directory scans by outcome (complete, stopped, error, cached).
	Scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelbox_scans_total",
		Help: "Directory scans, by outcome.",
	}, []string{"outcome"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelbox_scan_duration_seconds",
		Help:    "Time spent listing and classifying a directory.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	// Thumbnails counts generation attempts by result (generated, cached, busy, failed).
	Thumbnails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelbox_thumbnails_total",
		Help: "Thumbnail requests, by result.",
	}, []string{"result"})

	// StoreErrors counts storage faults swallowed at the service boundary, by operation family.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelbox_store_errors_total",
		Help: "Storage faults degraded to neutral values, by operation family.",
	}, []string{"family"})

	// ActiveSessions tracks playback sessions currently registered.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reelbox_active_sessions",
		Help: "Playback sessions currently running.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
