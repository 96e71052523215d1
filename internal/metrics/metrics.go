// Package metrics provides Prometheus metrics for the video cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "videocache"

var (
	// LookupsTotal tracks cache existence checks.
	// Labels:
	//   - result: hit, miss
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Total number of cache existence checks",
		},
		[]string{"result"},
	)

	// DownloadsTotal tracks download attempts.
	// Labels:
	//   - status: success, error
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Total number of download attempts",
		},
		[]string{"status"},
	)

	// DownloadsShared counts download requests coalesced onto an
	// in-flight transfer for the same key.
	DownloadsShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_shared_total",
			Help:      "Total number of download requests coalesced onto an in-flight transfer",
		},
	)

	// DownloadBytesTotal counts bytes written to the cache.
	DownloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_bytes_total",
			Help:      "Total bytes written to the cache",
		},
	)

	// DownloadDuration observes download latency.
	DownloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_duration_seconds",
			Help:      "Download latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// EvictionsTotal counts evicted entries.
	EvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Total number of evicted cache entries",
		},
	)

	// CacheSizeBytes reports the last observed total cache size.
	CacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "size_bytes",
			Help:      "Last observed total cache size in bytes",
		},
	)
)

// Lookup result constants.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Download status constants.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
