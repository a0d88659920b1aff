package postgres

import (
	"context"
	"errors"
	"io"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	"github.com/Zinedinarnaut/torqueindex/internal/search"
	"github.com/Zinedinarnaut/torqueindex/pkg/database"
	apperrors "github.com/Zinedinarnaut/torqueindex/pkg/errors"
	"github.com/Zinedinarnaut/torqueindex/pkg/logger"
)

func newTestRepo(t *testing.T) (*ModRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewModRepository(mock, logger.NewWithWriter("test", "error", io.Discard)), mock
}

func testMod() domain.NormalizedMod {
	return domain.NormalizedMod{
		ID:          "justjap:42",
		StoreID:     "justjap",
		Title:       "Turbo Kit",
		Images:      []string{"https://cdn.example.com/a.jpg"},
		Price:       1999.95,
		Vendor:      "HKS",
		ProductType: "Forced Induction",
		Tags:        []string{"toyota", "supra"},
		ProductURL:  "https://www.justjap.com/products/turbo-kit",
	}
}

// anyArgs returns n pgxmock.AnyArg matchers; pgxmock requires the
// expectation's argument count to match the actual call's.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func modColumnValues(mod domain.NormalizedMod) []any {
	return []any{
		mod.ID, mod.StoreID, mod.Title, []byte(`["https://cdn.example.com/a.jpg"]`),
		mod.Price, mod.Vendor, mod.ProductType, []byte(`["toyota","supra"]`), mod.ProductURL,
	}
}

func TestReplaceStoreModsUpsertsAndPrunes(t *testing.T) {
	repo, mock := newTestRepo(t)
	mod := testMod()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO normalized_mods").
		WithArgs(
			mod.ID, mod.StoreID, mod.Title,
			[]byte(`["https://cdn.example.com/a.jpg"]`),
			mod.Price, mod.Vendor, mod.ProductType,
			[]byte(`["toyota","supra"]`),
			mod.ProductURL,
			"turbo kit hks forced induction toyota supra",
			"turbokithksforcedinductiontoyotasupra",
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM normalized_mods WHERE store_id = \$1 AND updated_at < \$2`).
		WithArgs("justjap", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCommit()

	count, err := repo.ReplaceStoreMods(context.Background(), "justjap", []domain.NormalizedMod{mod})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceStoreModsEmptyBatchClearsStore(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM normalized_mods WHERE store_id = \$1`).
		WithArgs("justjap").
		WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectCommit()

	count, err := repo.ReplaceStoreMods(context.Background(), "justjap", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceStoreModsRollsBackOnFailure(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO normalized_mods").
		WithArgs(anyArgs(12)...).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := repo.ReplaceStoreMods(context.Background(), "justjap", []domain.NormalizedMod{testMod()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDatabase))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPushesFilterIntoSQL(t *testing.T) {
	repo, mock := newTestRepo(t)
	mod := testMod()

	rows := pgxmock.NewRows([]string{
		"id", "store_id", "title", "images", "price",
		"vendor", "product_type", "tags", "product_url",
	}).AddRow(modColumnValues(mod)...)

	mock.ExpectQuery(`SELECT .+ FROM normalized_mods WHERE \(search_text LIKE \$1\) ORDER BY updated_at DESC`).
		WithArgs("%toyota%").
		WillReturnRows(rows)

	mods, err := repo.Search(context.Background(), search.Filters{Make: "toyota"})
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, mod, mods[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchNoMatches(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT .+ FROM normalized_mods WHERE").
		WithArgs("%zzz%").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "store_id", "title", "images", "price",
			"vendor", "product_type", "tags", "product_url",
		}))

	mods, err := repo.Search(context.Background(), search.Filters{Make: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, mods)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDOrSuffix(t *testing.T) {
	repo, mock := newTestRepo(t)
	mod := testMod()

	rows := pgxmock.NewRows([]string{
		"id", "store_id", "title", "images", "price",
		"vendor", "product_type", "tags", "product_url",
	}).AddRow(modColumnValues(mod)...)

	mock.ExpectQuery(`WHERE id = \$1 OR split_part\(id, ':', 2\) = \$1`).
		WithArgs("42").
		WillReturnRows(rows)

	got, err := repo.GetByIDOrSuffix(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, mod, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDOrSuffixNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`WHERE id = \$1 OR split_part`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "store_id", "title", "images", "price",
			"vendor", "product_type", "tags", "product_url",
		}))

	_, err := repo.GetByIDOrSuffix(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM normalized_mods`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertChunking(t *testing.T) {
	repo, mock := newTestRepo(t)

	mods := make([]domain.NormalizedMod, upsertChunkSize+1)
	for i := range mods {
		mods[i] = domain.NormalizedMod{
			ID:         "store:" + string(rune('a'+i%26)),
			StoreID:    "store",
			Title:      "Part",
			ProductURL: "https://example.com/products/part",
		}
	}

	mock.ExpectBegin()
	// One full chunk and one remainder chunk.
	mock.ExpectExec("INSERT INTO normalized_mods").
		WithArgs(anyArgs(upsertChunkSize * 12)...).
		WillReturnResult(pgxmock.NewResult("INSERT", upsertChunkSize))
	mock.ExpectExec("INSERT INTO normalized_mods").
		WithArgs(anyArgs(12)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM normalized_mods").
		WithArgs("store", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCommit()

	count, err := repo.ReplaceStoreMods(context.Background(), "store", mods)
	require.NoError(t, err)
	assert.Equal(t, upsertChunkSize+1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
