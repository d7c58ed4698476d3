package priority

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stylesense/stylist-cli/internal/model"
	"github.com/stylesense/stylist-cli/internal/store"
)

// defaultRefreshConcurrency bounds concurrent upserts during a bulk refresh.
const defaultRefreshConcurrency = 8

// Refresher recomputes and persists priority scores for a tenant's cache.
// Run by the cache-refresh command; the engine itself only reads scores.
type Refresher struct {
	store       store.Store
	concurrency int
}

// NewRefresher creates a Refresher. concurrency <= 0 uses the default.
func NewRefresher(st store.Store, concurrency int) *Refresher {
	if concurrency <= 0 {
		concurrency = defaultRefreshConcurrency
	}
	return &Refresher{store: st, concurrency: concurrency}
}

// Refresh recomputes the priority score of every cached item for the tenant
// and upserts the results. Returns the number of items refreshed.
func (r *Refresher) Refresh(ctx context.Context, tenantID string, weights model.PriorityWeights) (int, error) {
	items, err := r.store.QueryItems(ctx, tenantID, store.ItemFilter{})
	if err != nil {
		return 0, eris.Wrap(err, "priority: query items for refresh")
	}
	if len(items) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, item := range items {
		g.Go(func() error {
			item.PriorityScore = Compute(InputsFromItem(item), weights, now)
			item.PriorityCalculatedAt = now
			if err := r.store.UpsertItem(gCtx, item); err != nil {
				return eris.Wrapf(err, "priority: refresh item %s", item.ItemID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	zap.L().Info("priority: refresh complete",
		zap.String("tenant", tenantID),
		zap.Int("items", len(items)),
	)
	return len(items), nil
}
