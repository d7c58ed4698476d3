// Package settings resolves per-tenant engine settings. Resolve always
// returns a fully populated struct: a stored tenant override wins, then the
// configured default, then a hardcoded constant. Code downstream of this
// package never falls back to a bare literal.
package settings

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stylesense/stylist-cli/internal/config"
	"github.com/stylesense/stylist-cli/internal/model"
	"github.com/stylesense/stylist-cli/internal/store"
)

// Hardcoded floor defaults, used when neither a tenant row nor the config
// provides a value.
const (
	defaultModel             = "claude-haiku-4-5-20251001"
	defaultRequestsPerMinute = 30
	defaultMaxRetries        = 3
	defaultCount             = 5
	defaultMinScore          = 50
	defaultMaxScan           = 50
)

// Settings is the resolved, fully populated configuration for one tenant.
type Settings struct {
	TenantID          string
	Enabled           bool
	APIKey            string
	Model             string
	RequestsPerMinute int
	MaxRetries        int
	DefaultCount      int
	DefaultMinScore   float64
	MaxScan           int
	Weights           model.PriorityWeights
	Bands             model.BudgetBands
}

// Resolver resolves tenant settings from the store with config defaults.
type Resolver struct {
	store store.Store
	cfg   *config.Config
}

// NewResolver creates a Resolver.
func NewResolver(st store.Store, cfg *config.Config) *Resolver {
	return &Resolver{store: st, cfg: cfg}
}

// Resolve returns the effective settings for a tenant. A missing tenant row
// is not an error: the configured defaults apply.
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (*Settings, error) {
	if tenantID == "" {
		return nil, eris.New("settings: tenant id is required")
	}

	s := r.defaults(tenantID)

	rec, err := r.store.GetTenantSettings(ctx, tenantID)
	if err != nil {
		return nil, eris.Wrapf(err, "settings: load tenant %s", tenantID)
	}
	if rec == nil {
		return s, nil
	}

	if rec.Enabled != nil {
		s.Enabled = *rec.Enabled
	}
	if rec.Model != "" {
		s.Model = rec.Model
	}
	if rec.RequestsPerMinute > 0 {
		s.RequestsPerMinute = rec.RequestsPerMinute
	}
	if rec.Weights != nil {
		s.Weights = *rec.Weights
	}
	if rec.Bands != nil {
		s.Bands = *rec.Bands
	}

	zap.L().Debug("settings: resolved tenant overrides",
		zap.String("tenant", tenantID),
		zap.Bool("enabled", s.Enabled),
		zap.String("model", s.Model),
	)
	return s, nil
}

// defaults builds settings from config, falling back to package constants.
func (r *Resolver) defaults(tenantID string) *Settings {
	eng := r.cfg.Engine
	s := &Settings{
		TenantID:          tenantID,
		Enabled:           eng.Enabled,
		APIKey:            r.cfg.Anthropic.Key,
		Model:             r.cfg.Anthropic.Model,
		RequestsPerMinute: eng.RequestsPerMinute,
		MaxRetries:        eng.MaxRetries,
		DefaultCount:      eng.DefaultCount,
		DefaultMinScore:   eng.DefaultMinScore,
		MaxScan:           eng.MaxScan,
		Weights: model.PriorityWeights{
			NewArrival:           r.cfg.Priority.NewArrivalWeight,
			Overstock:            r.cfg.Priority.OverstockWeight,
			SlowMover:            r.cfg.Priority.SlowMoverWeight,
			HighMargin:           r.cfg.Priority.HighMarginWeight,
			OnSale:               r.cfg.Priority.OnSaleWeight,
			NewArrivalWindowDays: r.cfg.Priority.NewArrivalWindowDays,
			OverstockThreshold:   r.cfg.Priority.OverstockThreshold,
			SlowMoverThreshold:   r.cfg.Priority.SlowMoverThreshold,
		},
		Bands: model.BudgetBands{
			LowMax:    r.cfg.Budget.LowMax,
			MediumMax: r.cfg.Budget.MediumMax,
			HighMax:   r.cfg.Budget.HighMax,
		},
	}

	if s.Model == "" {
		s.Model = defaultModel
	}
	if s.RequestsPerMinute <= 0 {
		s.RequestsPerMinute = defaultRequestsPerMinute
	}
	if s.MaxRetries <= 0 {
		s.MaxRetries = defaultMaxRetries
	}
	if s.DefaultCount <= 0 {
		s.DefaultCount = defaultCount
	}
	if s.DefaultMinScore <= 0 {
		s.DefaultMinScore = defaultMinScore
	}
	if s.MaxScan <= 0 {
		s.MaxScan = defaultMaxScan
	}
	return s
}
