package indexer

import (
	"context"
	"errors"
	"time"

	"librarian/internal/contextutil"
)

// DefaultInterval is the period between scheduled syncs.
const DefaultInterval = 60 * time.Minute

// Syncer runs one full sync.
type Syncer interface {
	SyncAll(ctx context.Context) (SyncSummary, error)
}

// Scheduler runs a sync on start, then every interval and whenever Trigger
// is called. Syncs never overlap; requests that arrive during a sync are
// coalesced into one follow-up run.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	trigger  chan struct{}
}

// NewScheduler creates a scheduler. interval <= 0 selects DefaultInterval.
func NewScheduler(syncer Syncer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests a sync as soon as the current one, if any, finishes.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "scheduler stopped")
			return nil
		case <-ticker.C:
			s.runOnce(ctx, "interval")
		case <-s.trigger:
			s.runOnce(ctx, "trigger")
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, reason string) {
	logger := contextutil.LoggerFromContext(ctx)
	if ctx.Err() != nil {
		return
	}

	logger.InfoContext(ctx, "scheduled sync starting", "reason", reason)
	_, err := s.syncer.SyncAll(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncInProgress):
		logger.DebugContext(ctx, "sync already running, skipping", "reason", reason)
	case errors.Is(err, context.Canceled):
		logger.InfoContext(ctx, "scheduled sync cancelled", "reason", reason)
	default:
		logger.ErrorContext(ctx, "scheduled sync failed", "reason", reason, "error", err)
	}
}
