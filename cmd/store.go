package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/stylesense/stylist-cli/internal/config"
	"github.com/stylesense/stylist-cli/internal/model"
	"github.com/stylesense/stylist-cli/internal/store"
)

// openStore opens the configured item-cache backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	var err error

	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// priorityWeights maps the configured defaults into the model shape.
func priorityWeights(p config.PriorityConfig) model.PriorityWeights {
	return model.PriorityWeights{
		NewArrival:           p.NewArrivalWeight,
		Overstock:            p.OverstockWeight,
		SlowMover:            p.SlowMoverWeight,
		HighMargin:           p.HighMarginWeight,
		OnSale:               p.OnSaleWeight,
		NewArrivalWindowDays: p.NewArrivalWindowDays,
		OverstockThreshold:   p.OverstockThreshold,
		SlowMoverThreshold:   p.SlowMoverThreshold,
	}
}
