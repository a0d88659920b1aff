package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	"github.com/Zinedinarnaut/torqueindex/internal/repository"
	apperrors "github.com/Zinedinarnaut/torqueindex/pkg/errors"
)

// StoreFetcher collects a single store's full catalog.
type StoreFetcher interface {
	FetchStoreMods(ctx context.Context, store domain.Store) ([]domain.NormalizedMod, error)
}

// EventPublisher emits scrape lifecycle events. Implementations must treat
// publish failures as non-fatal; the orchestrator only logs them.
type EventPublisher interface {
	PublishStoreSynced(ctx context.Context, storeID string, modCount int) error
	PublishScrapeCompleted(ctx context.Context, stats domain.ScrapeStats) error
}

type storeResult struct {
	store domain.Store
	mods  []domain.NormalizedMod
	err   error
}

// Orchestrator runs full-catalog scrape jobs across the store registry with
// bounded concurrency. Only one job runs at a time; callers that overlap
// queue behind the in-flight job.
type Orchestrator struct {
	stores      []domain.Store
	fetcher     StoreFetcher
	repo        repository.ModRepository
	events      EventPublisher
	logger      *slog.Logger
	concurrency int

	mu sync.Mutex
}

// NewOrchestrator wires a scrape orchestrator. events may be nil when no
// broker is configured.
func NewOrchestrator(
	stores []domain.Store,
	fetcher StoreFetcher,
	repo repository.ModRepository,
	events EventPublisher,
	concurrency int,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		stores:      stores,
		fetcher:     fetcher,
		repo:        repo,
		events:      events,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run executes one scrape job over every registered store and persists each
// store's catalog as it completes. It returns aggregate stats; the error is
// non-nil when every store failed or when persistence failed.
func (o *Orchestrator) Run(ctx context.Context) (domain.ScrapeStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	o.logger.InfoContext(ctx, "scrape job started",
		slog.Int("stores", len(o.stores)),
		slog.Int("concurrency", o.concurrency),
	)

	stats, err := o.scrapeAll(ctx)

	elapsed := time.Since(start)
	observeScrapeJob(err, elapsed)
	if err != nil {
		o.logger.ErrorContext(ctx, "scrape job failed",
			slog.Int("stores_succeeded", stats.StoresSucceeded),
			slog.Int("stores_failed", stats.StoresFailed),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return stats, err
	}

	o.logger.InfoContext(ctx, "scrape job completed",
		slog.Int("stores_succeeded", stats.StoresSucceeded),
		slog.Int("stores_failed", stats.StoresFailed),
		slog.Int("mods_upserted", stats.ModsUpserted),
		slog.Duration("elapsed", elapsed),
	)

	if o.events != nil {
		if err := o.events.PublishScrapeCompleted(ctx, stats); err != nil {
			o.logger.WarnContext(ctx, "failed to publish scrape.completed event",
				slog.String("error", err.Error()))
		}
	}

	return stats, nil
}

func (o *Orchestrator) scrapeAll(ctx context.Context) (domain.ScrapeStats, error) {
	stats := domain.ScrapeStats{StoresTotal: len(o.stores)}
	if len(o.stores) == 0 {
		return stats, nil
	}

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, o.concurrency)
	results := make(chan storeResult)

	var wg sync.WaitGroup
	for _, store := range o.stores {
		wg.Add(1)
		go func(store domain.Store) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-jobCtx.Done():
				results <- storeResult{store: store, err: jobCtx.Err()}
				return
			}
			defer func() { <-sem }()

			mods, err := o.fetcher.FetchStoreMods(jobCtx, store)
			results <- storeResult{store: store, mods: mods, err: err}
		}(store)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Persist in completion order. The first persistence failure cancels the
	// remaining fetches and escalates after the workers drain.
	var persistErr error
	for res := range results {
		if res.err != nil {
			stats.StoresFailed++
			o.logger.WarnContext(ctx, "store scrape failed",
				slog.String("store_id", res.store.ID),
				slog.String("error", res.err.Error()),
			)
			observeStoreScrape(res.store.ID, false, 0)
			continue
		}

		if persistErr != nil {
			stats.StoresFailed++
			continue
		}

		count, err := o.repo.ReplaceStoreMods(ctx, res.store.ID, res.mods)
		if err != nil {
			stats.StoresFailed++
			observeStoreScrape(res.store.ID, false, 0)
			persistErr = err
			cancel()
			continue
		}

		stats.StoresSucceeded++
		stats.ModsUpserted += count
		observeStoreScrape(res.store.ID, true, count)
		o.logger.InfoContext(ctx, "store catalog synced",
			slog.String("store_id", res.store.ID),
			slog.Int("mods", count),
		)

		if o.events != nil {
			if err := o.events.PublishStoreSynced(ctx, res.store.ID, count); err != nil {
				o.logger.WarnContext(ctx, "failed to publish store.synced event",
					slog.String("store_id", res.store.ID),
					slog.String("error", err.Error()))
			}
		}
	}

	if persistErr != nil {
		return stats, persistErr
	}
	if stats.StoresSucceeded == 0 {
		return stats, apperrors.Upstream("all stores failed to scrape")
	}
	return stats, nil
}
