package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/stylesense/stylist-cli/internal/model"
)

// pgxPool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgxPool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool pgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS catalog_items (
	tenant_id              TEXT NOT NULL,
	item_id                TEXT NOT NULL,
	title                  TEXT NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	category               TEXT NOT NULL DEFAULT '',
	tags                   JSONB,
	price                  DOUBLE PRECISION NOT NULL DEFAULT 0,
	compare_at_price       DOUBLE PRECISION NOT NULL DEFAULT 0,
	in_stock               BOOLEAN NOT NULL DEFAULT true,
	stock_qty              INTEGER NOT NULL DEFAULT 0,
	sizes                  JSONB,
	published_at           TIMESTAMPTZ,
	total_sold             INTEGER,
	margin_pct             DOUBLE PRECISION,
	visual                 JSONB,
	priority_score         DOUBLE PRECISION NOT NULL DEFAULT 0,
	priority_calculated_at TIMESTAMPTZ,
	PRIMARY KEY (tenant_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_catalog_items_priority
	ON catalog_items(tenant_id, priority_score DESC);
CREATE INDEX IF NOT EXISTS idx_catalog_items_in_stock
	ON catalog_items(tenant_id, in_stock);

CREATE TABLE IF NOT EXISTS tenant_settings (
	tenant_id  TEXT PRIMARY KEY,
	settings   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

const upsertItemSQL = `
INSERT INTO catalog_items
	(tenant_id, item_id, title, description, category, tags, price,
	 compare_at_price, in_stock, stock_qty, sizes, published_at, total_sold,
	 margin_pct, visual, priority_score, priority_calculated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (tenant_id, item_id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	category = EXCLUDED.category,
	tags = EXCLUDED.tags,
	price = EXCLUDED.price,
	compare_at_price = EXCLUDED.compare_at_price,
	in_stock = EXCLUDED.in_stock,
	stock_qty = EXCLUDED.stock_qty,
	sizes = EXCLUDED.sizes,
	published_at = EXCLUDED.published_at,
	total_sold = EXCLUDED.total_sold,
	margin_pct = EXCLUDED.margin_pct,
	visual = EXCLUDED.visual,
	priority_score = EXCLUDED.priority_score,
	priority_calculated_at = EXCLUDED.priority_calculated_at`

func (s *PostgresStore) UpsertItem(ctx context.Context, item model.CatalogItem) error {
	if item.TenantID == "" || item.ItemID == "" {
		return eris.New("postgres: upsert item: tenant and item id are required")
	}

	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal tags")
	}
	sizes, err := json.Marshal(item.Sizes)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal sizes")
	}
	var visual []byte
	if item.Visual != nil {
		visual, err = json.Marshal(item.Visual)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal visual analysis")
		}
	}

	_, err = s.pool.Exec(ctx, upsertItemSQL,
		item.TenantID, item.ItemID, item.Title, item.Description, item.Category,
		tags, item.Price, item.CompareAtPrice, item.InStock, item.StockQty,
		sizes, nullableTime(item.PublishedAt), item.TotalSold, item.MarginPct,
		visual, item.PriorityScore, nullableTime(item.PriorityCalculatedAt),
	)
	return eris.Wrapf(err, "postgres: upsert item %s/%s", item.TenantID, item.ItemID)
}

const queryItemsSQL = `
SELECT tenant_id, item_id, title, description, category, tags, price,
       compare_at_price, in_stock, stock_qty, sizes, published_at, total_sold,
       margin_pct, visual, priority_score, priority_calculated_at
FROM catalog_items
WHERE tenant_id = $1`

func (s *PostgresStore) QueryItems(ctx context.Context, tenantID string, filter ItemFilter) ([]model.CatalogItem, error) {
	query := queryItemsSQL
	args := []any{tenantID}

	if filter.InStockOnly {
		query += ` AND in_stock = true`
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		query += ` AND price >= $2`
	}
	query += ` ORDER BY priority_score DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		if filter.MinPrice > 0 {
			query += ` LIMIT $3`
		} else {
			query += ` LIMIT $2`
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query items")
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, eris.Wrap(rows.Err(), "postgres: iterate items")
}

func (s *PostgresStore) CacheStatus(ctx context.Context, tenantID string) (*CacheStatus, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE in_stock),
		       min(priority_calculated_at),
		       max(priority_calculated_at)
		FROM catalog_items WHERE tenant_id = $1`, tenantID)

	var cs CacheStatus
	var oldest, newest *time.Time
	if err := row.Scan(&cs.Items, &cs.InStock, &oldest, &newest); err != nil {
		return nil, eris.Wrap(err, "postgres: cache status")
	}
	if oldest != nil {
		cs.OldestPriorityAt = *oldest
	}
	if newest != nil {
		cs.NewestPriorityAt = *newest
	}
	return &cs, nil
}

func (s *PostgresStore) GetTenantSettings(ctx context.Context, tenantID string) (*model.TenantSettingsRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT settings, updated_at FROM tenant_settings WHERE tenant_id = $1`, tenantID)

	var raw []byte
	var updatedAt time.Time
	err := row.Scan(&raw, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get tenant settings")
	}

	var rec model.TenantSettingsRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal tenant settings")
	}
	rec.TenantID = tenantID
	rec.UpdatedAt = updatedAt
	return &rec, nil
}

func (s *PostgresStore) SaveTenantSettings(ctx context.Context, rec model.TenantSettingsRecord) error {
	if rec.TenantID == "" {
		return eris.New("postgres: save tenant settings: tenant id is required")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal tenant settings")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO tenant_settings (tenant_id, settings, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tenant_id) DO UPDATE SET
			settings = EXCLUDED.settings,
			updated_at = now()`, rec.TenantID, raw)
	return eris.Wrapf(err, "postgres: save tenant settings %s", rec.TenantID)
}

// scanItem reads one catalog_items row.
func scanItem(row pgx.Row) (*model.CatalogItem, error) {
	var it model.CatalogItem
	var tags, sizes, visual []byte
	var publishedAt, calculatedAt *time.Time

	err := row.Scan(
		&it.TenantID, &it.ItemID, &it.Title, &it.Description, &it.Category,
		&tags, &it.Price, &it.CompareAtPrice, &it.InStock, &it.StockQty,
		&sizes, &publishedAt, &it.TotalSold, &it.MarginPct, &visual,
		&it.PriorityScore, &calculatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan item")
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &it.Tags); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal tags")
		}
	}
	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &it.Sizes); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal sizes")
		}
	}
	if len(visual) > 0 {
		it.Visual = &model.VisualAnalysis{}
		if err := json.Unmarshal(visual, it.Visual); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal visual analysis")
		}
	}
	if publishedAt != nil {
		it.PublishedAt = *publishedAt
	}
	if calculatedAt != nil {
		it.PriorityCalculatedAt = *calculatedAt
	}
	return &it, nil
}

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
