package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	"github.com/Zinedinarnaut/torqueindex/internal/search"
	apperrors "github.com/Zinedinarnaut/torqueindex/pkg/errors"
	"github.com/Zinedinarnaut/torqueindex/pkg/logger"
)

type stubRepo struct {
	count     int64
	countErr  error
	mods      []domain.NormalizedMod
	searchErr error
	mod       *domain.NormalizedMod
	getErr    error

	searchedWith search.Filters
}

func (r *stubRepo) ReplaceStoreMods(context.Context, string, []domain.NormalizedMod) (int, error) {
	return 0, nil
}

func (r *stubRepo) Search(_ context.Context, filters search.Filters) ([]domain.NormalizedMod, error) {
	r.searchedWith = filters
	return r.mods, r.searchErr
}

func (r *stubRepo) GetByIDOrSuffix(context.Context, string) (*domain.NormalizedMod, error) {
	return r.mod, r.getErr
}

func (r *stubRepo) Count(context.Context) (int64, error) {
	return r.count, r.countErr
}

type stubScraper struct {
	stats domain.ScrapeStats
	err   error
	runs  int
}

func (s *stubScraper) Run(context.Context) (domain.ScrapeStats, error) {
	s.runs++
	return s.stats, s.err
}

func testLogger() *slog.Logger {
	return logger.NewWithWriter("test", "error", io.Discard)
}

func newTestService(repo *stubRepo, scraper *stubScraper) *ModService {
	stores := []domain.Store{{ID: "justjap", Name: "Just Jap", BaseURL: "https://www.justjap.com"}}
	return NewModService(repo, scraper, stores, testLogger())
}

func TestSearchModsRequiresAFilter(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubScraper{})

	_, err := svc.SearchMods(context.Background(), search.Filters{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	// Whitespace-only filters carry no matchable content either.
	_, err = svc.SearchMods(context.Background(), search.Filters{Make: "  ", Model: "--"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestSearchModsReturnsMatches(t *testing.T) {
	repo := &stubRepo{
		count: 10,
		mods:  []domain.NormalizedMod{{ID: "justjap:1", Title: "Turbo Kit"}},
	}
	scraper := &stubScraper{}
	svc := newTestService(repo, scraper)

	mods, err := svc.SearchMods(context.Background(), search.Filters{Make: "toyota"})
	require.NoError(t, err)
	assert.Len(t, mods, 1)
	assert.Equal(t, "toyota", repo.searchedWith.Make)
	// A populated catalog never triggers a bootstrap scrape.
	assert.Equal(t, 0, scraper.runs)
}

func TestSearchModsReturnsEmptySliceNotNil(t *testing.T) {
	svc := newTestService(&stubRepo{count: 10}, &stubScraper{})

	mods, err := svc.SearchMods(context.Background(), search.Filters{Make: "nomatch"})
	require.NoError(t, err)
	assert.NotNil(t, mods)
	assert.Empty(t, mods)
}

func TestSearchModsBootstrapsEmptyCatalog(t *testing.T) {
	repo := &stubRepo{count: 0}
	scraper := &stubScraper{stats: domain.ScrapeStats{StoresSucceeded: 1}}
	svc := newTestService(repo, scraper)

	_, err := svc.SearchMods(context.Background(), search.Filters{Make: "toyota"})
	require.NoError(t, err)
	assert.Equal(t, 1, scraper.runs)
}

func TestSearchModsBootstrapFailurePropagates(t *testing.T) {
	repo := &stubRepo{count: 0}
	scraper := &stubScraper{err: apperrors.Upstream("all stores failed to scrape")}
	svc := newTestService(repo, scraper)

	_, err := svc.SearchMods(context.Background(), search.Filters{Make: "toyota"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestGetMod(t *testing.T) {
	mod := &domain.NormalizedMod{ID: "justjap:42", Title: "Turbo Kit"}
	scraper := &stubScraper{}
	svc := newTestService(&stubRepo{count: 10, mod: mod}, scraper)

	got, err := svc.GetMod(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, mod, got)
	assert.Equal(t, 0, scraper.runs)
}

func TestGetModBootstrapsEmptyCatalog(t *testing.T) {
	mod := &domain.NormalizedMod{ID: "justjap:42"}
	scraper := &stubScraper{}
	svc := newTestService(&stubRepo{count: 0, mod: mod}, scraper)

	_, err := svc.GetMod(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 1, scraper.runs)
}

func TestGetModRequiresID(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubScraper{})

	_, err := svc.GetMod(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestGetModNotFound(t *testing.T) {
	svc := newTestService(&stubRepo{getErr: apperrors.NotFound("mod")}, &stubScraper{})

	_, err := svc.GetMod(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestTriggerScrape(t *testing.T) {
	scraper := &stubScraper{stats: domain.ScrapeStats{StoresTotal: 18, StoresSucceeded: 17, StoresFailed: 1, ModsUpserted: 4200}}
	svc := newTestService(&stubRepo{}, scraper)

	stats, err := svc.TriggerScrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4200, stats.ModsUpserted)
	assert.Equal(t, 1, scraper.runs)
}

func TestStores(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubScraper{})

	stores := svc.Stores(context.Background())
	require.Len(t, stores, 1)
	assert.Equal(t, "justjap", stores[0].ID)
}
