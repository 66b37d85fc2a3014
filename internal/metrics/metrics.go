// Package metrics holds the Prometheus collectors of the file-share service.
// Collectors are registered on the default registry and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload results
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Lookup results
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupInvalid  = "invalid"
	LookupExpired  = "expired"
)

var (
	// UploadsTotal counts upload attempts by result.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileshare_uploads_total",
			Help: "Total number of upload attempts",
		},
		[]string{"result"},
	)

	// UploadedBytesTotal counts bytes accepted into the blob store.
	UploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fileshare_uploaded_bytes_total",
		Help: "Total number of bytes stored by successful uploads",
	})

	// PinCollisionsTotal counts PIN reservations that hit an existing PIN.
	PinCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fileshare_pin_collisions_total",
		Help: "Total number of PIN reservation conflicts",
	})

	// OrphanedBlobsRemovedTotal counts blobs deleted after a failed record insert.
	OrphanedBlobsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fileshare_orphaned_blobs_removed_total",
		Help: "Total number of blobs removed because their record could not be stored",
	})

	// LookupsTotal counts lookups by kind (id, pin, download) and result.
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileshare_lookups_total",
			Help: "Total number of record lookups",
		},
		[]string{"kind", "result"},
	)

	// CacheHitsTotal and CacheMissesTotal track the record cache.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fileshare_cache_hits_total",
		Help: "Total number of record cache hits",
	})
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fileshare_cache_misses_total",
		Help: "Total number of record cache misses",
	})

	// SweepRunsTotal counts expiry sweeps.
	SweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fileshare_sweep_runs_total",
		Help: "Total number of expiry sweeps",
	})

	// SweepDeletedTotal counts records removed by the expiry sweeper.
	SweepDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fileshare_sweep_deleted_total",
		Help: "Total number of expired records deleted",
	})

	// SweepDurationSeconds observes sweep duration.
	SweepDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fileshare_sweep_duration_seconds",
		Help:    "Duration of expiry sweeps in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)
