// Package postgres implements the catalog repository on PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	"github.com/Zinedinarnaut/torqueindex/internal/search"
	"github.com/Zinedinarnaut/torqueindex/pkg/database"
	apperrors "github.com/Zinedinarnaut/torqueindex/pkg/errors"
)

// upsertChunkSize bounds the rows per multi-row INSERT so parameter counts
// stay well under the wire protocol limit.
const upsertChunkSize = 400

const modColumns = `id, store_id, title, images, price, vendor, product_type, tags, product_url`

// ModRepository persists normalized mods in PostgreSQL.
type ModRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

// NewModRepository creates a PostgreSQL-backed mod repository.
func NewModRepository(db database.DBTX, logger *slog.Logger) *ModRepository {
	return &ModRepository{db: db, logger: logger}
}

// ReplaceStoreMods reconciles one store's catalog inside a single
// transaction. Every mod in the batch is upserted with a shared watermark
// timestamp, then rows for the store older than the watermark are pruned.
// An empty batch clears the store entirely.
func (r *ModRepository) ReplaceStoreMods(ctx context.Context, storeID string, mods []domain.NormalizedMod) (int, error) {
	watermark := time.Now().UTC()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if len(mods) == 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM normalized_mods WHERE store_id = $1`, storeID,
		); err != nil {
			return 0, apperrors.Database(err)
		}
	} else {
		for start := 0; start < len(mods); start += upsertChunkSize {
			end := min(start+upsertChunkSize, len(mods))
			if err := upsertChunk(ctx, tx, mods[start:end], watermark); err != nil {
				return 0, err
			}
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM normalized_mods WHERE store_id = $1 AND updated_at < $2`,
			storeID, watermark,
		); err != nil {
			return 0, apperrors.Database(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, apperrors.Database(err)
	}

	return len(mods), nil
}

func upsertChunk(ctx context.Context, tx pgx.Tx, mods []domain.NormalizedMod, watermark time.Time) error {
	const paramsPerRow = 12

	var sb strings.Builder
	sb.WriteString(`INSERT INTO normalized_mods
		(id, store_id, title, images, price, vendor, product_type, tags, product_url, search_text, search_compact, updated_at)
		VALUES `)

	args := make([]any, 0, len(mods)*paramsPerRow)
	for i := range mods {
		mod := &mods[i]
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * paramsPerRow
		sb.WriteByte('(')
		for p := 1; p <= paramsPerRow; p++ {
			if p > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+p)
		}
		sb.WriteByte(')')

		images, err := json.Marshal(emptyIfNil(mod.Images))
		if err != nil {
			return apperrors.Database(err)
		}
		tags, err := json.Marshal(emptyIfNil(mod.Tags))
		if err != nil {
			return apperrors.Database(err)
		}

		searchText := search.BuildSearchText(mod)
		args = append(args,
			mod.ID, mod.StoreID, mod.Title, images, mod.Price,
			mod.Vendor, mod.ProductType, tags, mod.ProductURL,
			searchText, search.Compact(searchText), watermark,
		)
	}

	sb.WriteString(` ON CONFLICT (id) DO UPDATE SET
		store_id = EXCLUDED.store_id,
		title = EXCLUDED.title,
		images = EXCLUDED.images,
		price = EXCLUDED.price,
		vendor = EXCLUDED.vendor,
		product_type = EXCLUDED.product_type,
		tags = EXCLUDED.tags,
		product_url = EXCLUDED.product_url,
		search_text = EXCLUDED.search_text,
		search_compact = EXCLUDED.search_compact,
		updated_at = EXCLUDED.updated_at`)

	if _, err := tx.Exec(ctx, sb.String(), args...); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

// Search returns the mods matching the filter set, newest first. The filter
// expression is compiled into a WHERE clause so matching runs in the
// database against the precomputed search columns.
func (r *ModRepository) Search(ctx context.Context, filters search.Filters) ([]domain.NormalizedMod, error) {
	builder := search.NewCondBuilder(1)
	filters.Expr().AppendSQL(builder)

	query := fmt.Sprintf(
		`SELECT %s FROM normalized_mods WHERE %s ORDER BY updated_at DESC`,
		modColumns, builder.String(),
	)

	rows, err := r.db.Query(ctx, query, builder.Args()...)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	defer rows.Close()

	var mods []domain.NormalizedMod
	for rows.Next() {
		mod, err := scanMod(rows)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		mods = append(mods, *mod)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Database(err)
	}

	return mods, nil
}

// GetByIDOrSuffix looks a mod up by its full "store:product" ID, falling
// back to matching the bare upstream product ID after the colon.
func (r *ModRepository) GetByIDOrSuffix(ctx context.Context, id string) (*domain.NormalizedMod, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM normalized_mods
		WHERE id = $1 OR split_part(id, ':', 2) = $1
		LIMIT 1`,
		modColumns,
	)

	mod, err := scanMod(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("mod")
		}
		return nil, apperrors.Database(err)
	}

	return mod, nil
}

// Count reports the number of stored mods.
func (r *ModRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM normalized_mods`,
	).Scan(&count); err != nil {
		return 0, apperrors.Database(err)
	}
	return count, nil
}

func scanMod(row pgx.Row) (*domain.NormalizedMod, error) {
	var (
		mod    domain.NormalizedMod
		images []byte
		tags   []byte
	)
	if err := row.Scan(
		&mod.ID, &mod.StoreID, &mod.Title, &images, &mod.Price,
		&mod.Vendor, &mod.ProductType, &tags, &mod.ProductURL,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &mod.Images); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &mod.Tags); err != nil {
		return nil, err
	}

	return &mod, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
