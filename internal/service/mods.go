// Package service implements the application operations on top of the
// repository and the scrape orchestrator.
package service

import (
	"context"
	"log/slog"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	"github.com/Zinedinarnaut/torqueindex/internal/repository"
	"github.com/Zinedinarnaut/torqueindex/internal/search"
	apperrors "github.com/Zinedinarnaut/torqueindex/pkg/errors"
)

// ScrapeRunner executes one full scrape job across the store registry.
type ScrapeRunner interface {
	Run(ctx context.Context) (domain.ScrapeStats, error)
}

// ModService exposes search, lookup, and scrape operations over the catalog.
type ModService struct {
	repo    repository.ModRepository
	scraper ScrapeRunner
	stores  []domain.Store
	logger  *slog.Logger
}

// NewModService wires the catalog service.
func NewModService(repo repository.ModRepository, scraper ScrapeRunner, stores []domain.Store, logger *slog.Logger) *ModService {
	return &ModService{
		repo:    repo,
		scraper: scraper,
		stores:  stores,
		logger:  logger,
	}
}

// SearchMods returns the mods matching the filter set, newest first. At
// least one filter must be non-empty. When the catalog has never been
// populated, a full scrape runs first so the very first search does not
// silently return nothing.
func (s *ModService) SearchMods(ctx context.Context, filters search.Filters) ([]domain.NormalizedMod, error) {
	if filters.Empty() {
		return nil, apperrors.InvalidInput("at least one of make, model or engine is required")
	}

	if err := s.bootstrapIfEmpty(ctx); err != nil {
		return nil, err
	}

	mods, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	if mods == nil {
		mods = []domain.NormalizedMod{}
	}
	return mods, nil
}

// GetMod looks a mod up by its full ID or its bare upstream product ID.
// Like search, it bootstraps an empty catalog first.
func (s *ModService) GetMod(ctx context.Context, id string) (*domain.NormalizedMod, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("mod id is required")
	}

	if err := s.bootstrapIfEmpty(ctx); err != nil {
		return nil, err
	}

	return s.repo.GetByIDOrSuffix(ctx, id)
}

// TriggerScrape runs one full scrape job and returns its aggregate stats.
// Concurrent triggers queue behind the in-flight job.
func (s *ModService) TriggerScrape(ctx context.Context) (domain.ScrapeStats, error) {
	return s.scraper.Run(ctx)
}

// Stores returns the configured store registry.
func (s *ModService) Stores(_ context.Context) []domain.Store {
	return s.stores
}

func (s *ModService) bootstrapIfEmpty(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	s.logger.InfoContext(ctx, "catalog is empty, running bootstrap scrape")
	if _, err := s.scraper.Run(ctx); err != nil {
		return err
	}
	return nil
}
