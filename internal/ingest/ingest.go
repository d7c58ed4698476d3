// Package ingest imports catalog files (XLSX or CSV) into the item cache,
// computing the initial priority score for every row.
package ingest

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stylesense/stylist-cli/internal/model"
	"github.com/stylesense/stylist-cli/internal/priority"
	"github.com/stylesense/stylist-cli/internal/store"
)

const defaultImportConcurrency = 8

// Stats summarizes one import run.
type Stats struct {
	Imported int
	Skipped  int
}

// Importer loads catalog files into the store.
type Importer struct {
	store       store.Store
	weights     model.PriorityWeights
	concurrency int
}

// NewImporter creates an Importer. concurrency <= 0 uses the default.
func NewImporter(st store.Store, weights model.PriorityWeights, concurrency int) *Importer {
	if concurrency <= 0 {
		concurrency = defaultImportConcurrency
	}
	return &Importer{store: st, weights: weights, concurrency: concurrency}
}

// Import reads a catalog file, chosen by extension, and upserts every valid
// row for the tenant. Rows without an id or title are skipped and counted.
func (im *Importer) Import(ctx context.Context, tenantID, path string) (*Stats, error) {
	if tenantID == "" {
		return nil, eris.New("ingest: tenant id is required")
	}

	var header []string
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		header, rows, err = readXLSX(path)
	case ".csv":
		header, rows, err = readCSVFile(path)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	cols := resolveColumns(header)
	now := time.Now().UTC()

	var stats Stats
	items := make([]model.CatalogItem, 0, len(rows))
	for _, row := range rows {
		item, ok := mapRow(row, cols, tenantID)
		if !ok {
			stats.Skipped++
			continue
		}
		item.PriorityScore = priority.Compute(priority.InputsFromItem(item), im.weights, now)
		item.PriorityCalculatedAt = now
		items = append(items, item)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)
	for _, item := range items {
		g.Go(func() error {
			if err := im.store.UpsertItem(gCtx, item); err != nil {
				return eris.Wrapf(err, "ingest: upsert %s", item.ItemID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.Imported = len(items)

	zap.L().Info("ingest: import complete",
		zap.String("tenant", tenantID),
		zap.String("file", path),
		zap.Int("imported", stats.Imported),
		zap.Int("skipped", stats.Skipped),
	)
	return &stats, nil
}

// columns maps logical fields to column positions; -1 means absent.
type columns struct {
	id, title, description, category, tags     int
	price, compareAt, inStock, stockQty, sizes int
	publishedAt, totalSold, marginPct          int
}

var headerAliases = map[string][]string{
	"id":           {"id", "item_id", "sku"},
	"title":        {"title", "name", "product_name"},
	"description":  {"description", "body"},
	"category":     {"category", "product_type"},
	"tags":         {"tags", "keywords"},
	"price":        {"price"},
	"compare_at":   {"compare_at_price", "compare_at", "was_price"},
	"in_stock":     {"in_stock", "available"},
	"stock_qty":    {"stock_qty", "quantity", "inventory"},
	"sizes":        {"sizes", "size_options"},
	"published_at": {"published_at", "published", "created_at"},
	"total_sold":   {"total_sold", "units_sold"},
	"margin_pct":   {"margin_pct", "margin"},
}

func resolveColumns(header []string) columns {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	find := func(field string) int {
		for _, alias := range headerAliases[field] {
			if i, ok := idx[alias]; ok {
				return i
			}
		}
		return -1
	}
	return columns{
		id:          find("id"),
		title:       find("title"),
		description: find("description"),
		category:    find("category"),
		tags:        find("tags"),
		price:       find("price"),
		compareAt:   find("compare_at"),
		inStock:     find("in_stock"),
		stockQty:    find("stock_qty"),
		sizes:       find("sizes"),
		publishedAt: find("published_at"),
		totalSold:   find("total_sold"),
		marginPct:   find("margin_pct"),
	}
}

func mapRow(row []string, cols columns, tenantID string) (model.CatalogItem, bool) {
	get := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	item := model.CatalogItem{
		TenantID:    tenantID,
		ItemID:      get(cols.id),
		Title:       get(cols.title),
		Description: get(cols.description),
		Category:    get(cols.category),
		Tags:        splitList(get(cols.tags)),
		Sizes:       splitList(get(cols.sizes)),
		InStock:     true,
	}
	if item.ItemID == "" || item.Title == "" {
		return model.CatalogItem{}, false
	}

	item.Price, _ = strconv.ParseFloat(get(cols.price), 64)
	item.CompareAtPrice, _ = strconv.ParseFloat(get(cols.compareAt), 64)
	item.StockQty, _ = strconv.Atoi(get(cols.stockQty))

	if v := get(cols.inStock); v != "" {
		item.InStock = parseBool(v)
	} else if cols.stockQty >= 0 {
		item.InStock = item.StockQty > 0
	}

	if v := get(cols.publishedAt); v != "" {
		item.PublishedAt = parseDate(v)
	}
	if v := get(cols.totalSold); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			item.TotalSold = &n
		}
	}
	if v := get(cols.marginPct); v != "" {
		if m, err := strconv.ParseFloat(v, 64); err == nil {
			item.MarginPct = &m
		}
	}

	return item, true
}

// splitList splits a comma or pipe separated cell.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	sep := ","
	if strings.Contains(s, "|") {
		sep = "|"
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
