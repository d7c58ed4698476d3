// Package engine orchestrates one recommendation request: resolve tenant
// settings, read the cache, filter, rank generatively or fall back, merge.
package engine

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stylesense/stylist-cli/internal/fallback"
	"github.com/stylesense/stylist-cli/internal/filter"
	"github.com/stylesense/stylist-cli/internal/merge"
	"github.com/stylesense/stylist-cli/internal/model"
	"github.com/stylesense/stylist-cli/internal/ranker"
	"github.com/stylesense/stylist-cli/internal/resilience"
	"github.com/stylesense/stylist-cli/internal/settings"
	"github.com/stylesense/stylist-cli/internal/store"
	"github.com/stylesense/stylist-cli/pkg/anthropic"
)

// Sentinel outcomes. ErrNoMatches is expected under strict constraints and
// is reported distinctly from transport errors.
var (
	ErrNoMatches     = eris.New("engine: no items matched the constraints")
	ErrNotConfigured = eris.New("engine: generative ranking enabled but no API key configured")
)

// Source values for Result.Source.
const (
	SourceGenerative = "generative"
	SourceFallback   = "fallback"
)

// RankClient is the generative ranking dependency, satisfied by
// *ranker.Ranker and by test stubs.
type RankClient interface {
	Rank(ctx context.Context, req ranker.Request) (*ranker.Result, error)
}

// Request is one caller-facing recommendation request. Zero Count, MinScore,
// and MaxScan resolve to the tenant defaults.
type Request struct {
	TenantID    string
	Profile     model.ShopperProfile
	Season      string
	Audience    string
	Count       int
	MinScore    float64
	MaxScan     int
	InStockOnly bool
}

// Result is the caller-facing response.
type Result struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Source          string                 `json:"source"`
	Dropped         int                    `json:"dropped,omitempty"`
}

// Engine serves recommendation requests. Safe for concurrent use; per-tenant
// rankers are cached so rate limiter and circuit breaker state survives
// across requests.
type Engine struct {
	store    store.Store
	resolver *settings.Resolver

	mu      sync.Mutex
	rankers map[string]RankClient

	// newRanker builds the per-tenant rank client; tests replace it.
	newRanker func(s *settings.Settings) RankClient
}

// New creates an Engine.
func New(st store.Store, resolver *settings.Resolver) *Engine {
	e := &Engine{
		store:    st,
		resolver: resolver,
		rankers:  make(map[string]RankClient),
	}
	e.newRanker = func(s *settings.Settings) RankClient {
		return ranker.New(anthropic.NewClient(s.APIKey), ranker.Config{
			Model:             s.Model,
			RequestsPerMinute: s.RequestsPerMinute,
			Retry:             retryConfig(s.MaxRetries),
		})
	}
	return e
}

// retryConfig keeps the default backoff profile and sets only the attempt
// count, which counts the initial call plus the configured retries.
func retryConfig(maxRetries int) resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = maxRetries + 1
	return cfg
}

// Recommend runs the full pipeline for one request.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	if req.TenantID == "" {
		return nil, eris.New("engine: tenant id is required")
	}

	s, err := e.resolver.Resolve(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	applyDefaults(&req, s)

	if s.Enabled && s.APIKey == "" {
		return nil, ErrNotConfigured
	}

	items, err := e.store.QueryItems(ctx, req.TenantID, store.ItemFilter{
		InStockOnly: req.InStockOnly,
	})
	if err != nil {
		return nil, eris.Wrap(err, "engine: query cache")
	}

	filtered := filter.Apply(items, filter.Constraints{
		Season:      req.Season,
		BudgetTier:  req.Profile.BudgetTier(),
		Bands:       s.Bands,
		Audience:    req.Audience,
		InStockOnly: req.InStockOnly,
	})
	if len(filtered) == 0 {
		return nil, ErrNoMatches
	}

	candidates := ranker.BuildCandidates(filtered, req.MaxScan)
	// Keep the item slice aligned with the candidate indices.
	scanned := filtered
	if len(candidates) < len(filtered) {
		scanned = filtered[:len(candidates)]
	}

	if s.Enabled {
		res, err := e.rankerFor(s).Rank(ctx, ranker.Request{
			Profile:    req.Profile,
			Season:     req.Season,
			Candidates: candidates,
			Count:      req.Count,
			MinScore:   req.MinScore,
		})
		if err == nil && len(res.Entries) > 0 {
			recs := merge.Merge(res.Entries, scanned, req.MinScore, req.Count)
			if len(recs) > 0 {
				return &Result{
					Recommendations: recs,
					Source:          SourceGenerative,
					Dropped:         res.Dropped,
				}, nil
			}
		}
		// Any generative failure degrades to the deterministic path,
		// including timeouts spent inside the retry loop.
		if err != nil {
			zap.L().Warn("engine: generative ranking failed, using fallback",
				zap.String("tenant", req.TenantID),
				zap.Error(err),
			)
		}
	}

	entries := fallback.Rank(scanned, req.Profile.BodyShape, req.MinScore)
	recs := merge.Merge(entries, scanned, req.MinScore, req.Count)
	if len(recs) == 0 {
		return nil, ErrNoMatches
	}
	return &Result{Recommendations: recs, Source: SourceFallback}, nil
}

func (e *Engine) rankerFor(s *settings.Settings) RankClient {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rc, ok := e.rankers[s.TenantID]; ok {
		return rc
	}
	rc := e.newRanker(s)
	e.rankers[s.TenantID] = rc
	return rc
}

func applyDefaults(req *Request, s *settings.Settings) {
	if req.Count <= 0 {
		req.Count = s.DefaultCount
	}
	if req.MinScore <= 0 {
		req.MinScore = s.DefaultMinScore
	}
	if req.MaxScan <= 0 {
		req.MaxScan = s.MaxScan
	}
}
