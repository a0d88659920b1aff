package scraper

import (
	"context"
	"log/slog"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
)

// PageFetcher retrieves one page of a store's product catalog.
type PageFetcher interface {
	FetchPage(ctx context.Context, store domain.Store, page int) (*domain.ShopifyProductsResponse, error)
}

// Paginator walks a store's catalog page by page, normalizing products as it
// goes and deduplicating by upstream product ID across pages.
type Paginator struct {
	fetcher PageFetcher
	cfg     Config
	logger  *slog.Logger
	sleep   sleepFunc
}

// NewPaginator creates a paginator over the given page fetcher.
func NewPaginator(fetcher PageFetcher, cfg Config, logger *slog.Logger) *Paginator {
	return &Paginator{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		sleep:   sleepContext,
	}
}

// FetchStoreMods collects the store's full catalog as normalized mods.
//
// Pagination stops on an empty page, a page that yields no products not seen
// on earlier pages, a short page (fewer products than the page limit), or the
// page cap. A failure on the first page fails the store; a failure on a later
// page returns the pages gathered so far as a partial result.
func (p *Paginator) FetchStoreMods(ctx context.Context, store domain.Store) ([]domain.NormalizedMod, error) {
	var mods []domain.NormalizedMod
	seen := make(map[int64]struct{})

	for page := 1; page <= p.cfg.MaxPages; page++ {
		resp, err := p.fetcher.FetchPage(ctx, store, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			p.logger.WarnContext(ctx, "page fetch failed, keeping partial catalog",
				slog.String("store_id", store.ID),
				slog.Int("page", page),
				slog.Int("mods_so_far", len(mods)),
				slog.String("error", err.Error()),
			)
			return mods, nil
		}

		if len(resp.Products) == 0 {
			break
		}

		newOnPage := 0
		for _, product := range resp.Products {
			if _, dup := seen[product.ID]; dup {
				continue
			}
			seen[product.ID] = struct{}{}
			mods = append(mods, domain.Normalize(product, store))
			newOnPage++
		}

		// A page of nothing but repeats means the upstream is serving the
		// same window again; stop rather than loop.
		if newOnPage == 0 {
			break
		}

		if len(resp.Products) < p.cfg.PageLimit {
			break
		}

		if page < p.cfg.MaxPages && p.cfg.PageDelay > 0 {
			if err := p.sleep(ctx, p.cfg.PageDelay); err != nil {
				return mods, nil
			}
		}
	}

	return mods, nil
}
