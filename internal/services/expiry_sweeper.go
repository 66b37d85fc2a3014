package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fileshare-api/internal/metrics"
	"fileshare-api/internal/repositories"
	"fileshare-api/internal/storage"
)

// SweepResult summarises one sweep
type SweepResult struct {
	Deleted  int
	Errors   int
	Duration time.Duration
}

// ExpirySweeper periodically removes records past their retention window
// together with their blobs. A blob that cannot be removed keeps its record
// so the next sweep retries it.
type ExpirySweeper struct {
	records   RecordStore
	blobs     *storage.BlobStore
	cache     *RecordCache
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex // serialises RunOnce
	cancel context.CancelFunc
	done   chan struct{}
}

// NewExpirySweeper creates a sweeper; Start launches it
func NewExpirySweeper(
	records RecordStore,
	blobs *storage.BlobStore,
	cache *RecordCache,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *ExpirySweeper {
	if batchSize <= 0 {
		batchSize = 100
	}
	if cache == nil {
		cache = NewRecordCache(0, 0)
	}
	return &ExpirySweeper{
		records:   records,
		blobs:     blobs,
		cache:     cache,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger.With(slog.String("component", "expiry_sweeper")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start runs a sweep immediately and then every interval until ctx is done or Stop is called
func (s *ExpirySweeper) Start(ctx context.Context) {
	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(sweepCtx)

	s.logger.Info("expiry sweeper started", slog.String("interval", s.interval.String()))
}

// Stop cancels the background loop and waits for it to exit
func (s *ExpirySweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.logger.Info("expiry sweeper stopped")
}

func (s *ExpirySweeper) run(ctx context.Context) {
	defer close(s.done)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce deletes every record expired at the time of the call, batch by batch
func (s *ExpirySweeper) RunOnce(ctx context.Context) *SweepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := &SweepResult{}
	now := s.now()

	for ctx.Err() == nil {
		batch, err := s.records.ListExpired(ctx, now, s.batchSize)
		if err != nil {
			s.logger.Error("failed to list expired records", slog.String("error", err.Error()))
			result.Errors++
			break
		}

		deleted := 0
		for i := range batch {
			record := &batch[i]

			if err := s.blobs.Remove(record.URL); err != nil && !errors.Is(err, storage.ErrInvalidPath) {
				s.logger.Error("failed to remove expired blob",
					slog.String("file_id", record.ID),
					slog.String("path", record.URL),
					slog.String("error", err.Error()),
				)
				result.Errors++
				continue
			}

			if err := s.records.Delete(ctx, record.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				s.logger.Error("failed to delete expired record",
					slog.String("file_id", record.ID),
					slog.String("error", err.Error()),
				)
				result.Errors++
				continue
			}

			s.cache.Delete(record.ID)
			deleted++
			s.logger.Debug("expired file removed",
				slog.String("file_id", record.ID),
				slog.String("filename", record.Name),
			)
		}
		result.Deleted += deleted

		// A short page means we are done; a page without progress would repeat forever
		if len(batch) < s.batchSize || deleted == 0 {
			break
		}
	}

	result.Duration = time.Since(start)

	metrics.SweepRunsTotal.Inc()
	metrics.SweepDeletedTotal.Add(float64(result.Deleted))
	metrics.SweepDurationSeconds.Observe(result.Duration.Seconds())

	s.logger.Info("expiry sweep finished",
		slog.Int("deleted", result.Deleted),
		slog.Int("errors", result.Errors),
		slog.Int("cached_records", s.cache.Len()),
		slog.Duration("duration", result.Duration),
	)

	return result
}
