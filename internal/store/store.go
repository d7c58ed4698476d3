package store

import (
	"context"
	"time"

	"github.com/stylesense/stylist-cli/internal/model"
)

// ItemFilter specifies criteria for querying the item cache. Results are
// always ordered by priority score descending.
type ItemFilter struct {
	InStockOnly bool    `json:"in_stock_only,omitempty"`
	MinPrice    float64 `json:"min_price,omitempty"`
	Limit       int     `json:"limit,omitempty"`
}

// CacheStatus summarizes a tenant's item cache for operators.
type CacheStatus struct {
	Items            int       `json:"items"`
	InStock          int       `json:"in_stock"`
	OldestPriorityAt time.Time `json:"oldest_priority_at,omitempty"`
	NewestPriorityAt time.Time `json:"newest_priority_at,omitempty"`
}

// Store defines persistence for the item cache and tenant settings.
type Store interface {
	// Item cache
	UpsertItem(ctx context.Context, item model.CatalogItem) error
	QueryItems(ctx context.Context, tenantID string, filter ItemFilter) ([]model.CatalogItem, error)
	CacheStatus(ctx context.Context, tenantID string) (*CacheStatus, error)

	// Tenant settings
	GetTenantSettings(ctx context.Context, tenantID string) (*model.TenantSettingsRecord, error)
	SaveTenantSettings(ctx context.Context, rec model.TenantSettingsRecord) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
