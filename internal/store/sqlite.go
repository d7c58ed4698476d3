package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/stylesense/stylist-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for local
// development and single-tenant deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS catalog_items (
	tenant_id              TEXT NOT NULL,
	item_id                TEXT NOT NULL,
	title                  TEXT NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	category               TEXT NOT NULL DEFAULT '',
	tags                   TEXT,
	price                  REAL NOT NULL DEFAULT 0,
	compare_at_price       REAL NOT NULL DEFAULT 0,
	in_stock               INTEGER NOT NULL DEFAULT 1,
	stock_qty              INTEGER NOT NULL DEFAULT 0,
	sizes                  TEXT,
	published_at           DATETIME,
	total_sold             INTEGER,
	margin_pct             REAL,
	visual                 TEXT,
	priority_score         REAL NOT NULL DEFAULT 0,
	priority_calculated_at DATETIME,
	PRIMARY KEY (tenant_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_catalog_items_priority
	ON catalog_items(tenant_id, priority_score DESC);

CREATE TABLE IF NOT EXISTS tenant_settings (
	tenant_id  TEXT PRIMARY KEY,
	settings   TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertItem(ctx context.Context, item model.CatalogItem) error {
	if item.TenantID == "" || item.ItemID == "" {
		return eris.New("sqlite: upsert item: tenant and item id are required")
	}

	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal tags")
	}
	sizes, err := json.Marshal(item.Sizes)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal sizes")
	}
	var visual any
	if item.Visual != nil {
		b, err := json.Marshal(item.Visual)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal visual analysis")
		}
		visual = string(b)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_items
			(tenant_id, item_id, title, description, category, tags, price,
			 compare_at_price, in_stock, stock_qty, sizes, published_at,
			 total_sold, margin_pct, visual, priority_score, priority_calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, item_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			tags = excluded.tags,
			price = excluded.price,
			compare_at_price = excluded.compare_at_price,
			in_stock = excluded.in_stock,
			stock_qty = excluded.stock_qty,
			sizes = excluded.sizes,
			published_at = excluded.published_at,
			total_sold = excluded.total_sold,
			margin_pct = excluded.margin_pct,
			visual = excluded.visual,
			priority_score = excluded.priority_score,
			priority_calculated_at = excluded.priority_calculated_at`,
		item.TenantID, item.ItemID, item.Title, item.Description, item.Category,
		string(tags), item.Price, item.CompareAtPrice, item.InStock, item.StockQty,
		string(sizes), nullableTime(item.PublishedAt), item.TotalSold,
		item.MarginPct, visual, item.PriorityScore,
		nullableTime(item.PriorityCalculatedAt),
	)
	return eris.Wrapf(err, "sqlite: upsert item %s/%s", item.TenantID, item.ItemID)
}

func (s *SQLiteStore) QueryItems(ctx context.Context, tenantID string, filter ItemFilter) ([]model.CatalogItem, error) {
	query := `
		SELECT tenant_id, item_id, title, description, category, tags, price,
		       compare_at_price, in_stock, stock_qty, sizes, published_at,
		       total_sold, margin_pct, visual, priority_score, priority_calculated_at
		FROM catalog_items WHERE tenant_id = ?`
	args := []any{tenantID}

	if filter.InStockOnly {
		query += ` AND in_stock = 1`
	}
	if filter.MinPrice > 0 {
		query += ` AND price >= ?`
		args = append(args, filter.MinPrice)
	}
	query += ` ORDER BY priority_score DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query items")
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		it, err := scanSQLiteItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: iterate items")
}

func (s *SQLiteStore) CacheStatus(ctx context.Context, tenantID string) (*CacheStatus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT count(*),
		       coalesce(sum(in_stock), 0),
		       min(priority_calculated_at),
		       max(priority_calculated_at)
		FROM catalog_items WHERE tenant_id = ?`, tenantID)

	var cs CacheStatus
	var oldest, newest sql.NullTime
	if err := row.Scan(&cs.Items, &cs.InStock, &oldest, &newest); err != nil {
		return nil, eris.Wrap(err, "sqlite: cache status")
	}
	if oldest.Valid {
		cs.OldestPriorityAt = oldest.Time
	}
	if newest.Valid {
		cs.NewestPriorityAt = newest.Time
	}
	return &cs, nil
}

func (s *SQLiteStore) GetTenantSettings(ctx context.Context, tenantID string) (*model.TenantSettingsRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT settings, updated_at FROM tenant_settings WHERE tenant_id = ?`, tenantID)

	var raw string
	var updatedAt time.Time
	err := row.Scan(&raw, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get tenant settings")
	}

	var rec model.TenantSettingsRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal tenant settings")
	}
	rec.TenantID = tenantID
	rec.UpdatedAt = updatedAt
	return &rec, nil
}

func (s *SQLiteStore) SaveTenantSettings(ctx context.Context, rec model.TenantSettingsRecord) error {
	if rec.TenantID == "" {
		return eris.New("sqlite: save tenant settings: tenant id is required")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal tenant settings")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tenant_settings (tenant_id, settings, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (tenant_id) DO UPDATE SET
			settings = excluded.settings,
			updated_at = datetime('now')`, rec.TenantID, string(raw))
	return eris.Wrapf(err, "sqlite: save tenant settings %s", rec.TenantID)
}

func scanSQLiteItem(rows *sql.Rows) (*model.CatalogItem, error) {
	var it model.CatalogItem
	var tags, sizes sql.NullString
	var visual sql.NullString
	var publishedAt, calculatedAt sql.NullTime

	err := rows.Scan(
		&it.TenantID, &it.ItemID, &it.Title, &it.Description, &it.Category,
		&tags, &it.Price, &it.CompareAtPrice, &it.InStock, &it.StockQty,
		&sizes, &publishedAt, &it.TotalSold, &it.MarginPct, &visual,
		&it.PriorityScore, &calculatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan item")
	}

	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &it.Tags); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal tags")
		}
	}
	if sizes.Valid && sizes.String != "" {
		if err := json.Unmarshal([]byte(sizes.String), &it.Sizes); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal sizes")
		}
	}
	if visual.Valid && visual.String != "" {
		it.Visual = &model.VisualAnalysis{}
		if err := json.Unmarshal([]byte(visual.String), it.Visual); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal visual analysis")
		}
	}
	if publishedAt.Valid {
		it.PublishedAt = publishedAt.Time
	}
	if calculatedAt.Valid {
		it.PriorityCalculatedAt = calculatedAt.Time
	}
	return &it, nil
}
