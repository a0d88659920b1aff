package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Scheduler triggers a full scrape job on a fixed interval until its context
// is canceled. Jobs that overrun the interval simply delay the next tick;
// the orchestrator's lock guarantees jobs never overlap.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	logger       *slog.Logger
}

// NewScheduler creates a periodic scrape scheduler.
func NewScheduler(orchestrator *Orchestrator, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
		logger:       logger,
	}
}

// Run blocks until ctx is canceled, firing a scrape job every interval.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "scrape scheduler started",
		slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scrape scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.orchestrator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.ErrorContext(ctx, "scheduled scrape failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
