// Package repository defines the persistence interfaces for the catalog.
package repository

import (
	"context"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	"github.com/Zinedinarnaut/torqueindex/internal/search"
)

// ModRepository is the storage contract for normalized mods.
type ModRepository interface {
	// ReplaceStoreMods atomically reconciles one store's catalog: every mod
	// in the batch is inserted or updated, and rows for the store not in the
	// batch are pruned. An empty batch clears the store.
	ReplaceStoreMods(ctx context.Context, storeID string, mods []domain.NormalizedMod) (int, error)

	// Search returns the mods matching the filter set, newest first.
	Search(ctx context.Context, filters search.Filters) ([]domain.NormalizedMod, error)

	// GetByIDOrSuffix looks a mod up by its full "store:product" ID or by the
	// bare upstream product ID.
	GetByIDOrSuffix(ctx context.Context, id string) (*domain.NormalizedMod, error)

	// Count reports the number of stored mods.
	Count(ctx context.Context) (int64, error)
}
