// Package ranker is the generative ranking client: it builds a structured
// ranking request from filtered candidates and the shopper profile, calls
// the Anthropic API with rate limiting, retry, and a circuit breaker, and
// repairs and validates the structured reply.
package ranker

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/stylesense/stylist-cli/internal/model"
	"github.com/stylesense/stylist-cli/internal/resilience"
	"github.com/stylesense/stylist-cli/pkg/anthropic"
)

const defaultMaxTokens = 4096

// Config holds the ranker's tunables, resolved per tenant by the settings
// collaborator.
type Config struct {
	Model             string
	MaxTokens         int64
	RequestsPerMinute int
	Retry             resilience.RetryConfig
	Breaker           *resilience.CircuitBreaker
}

// Ranker calls the ranking service for one tenant.
type Ranker struct {
	client    anthropic.Client
	limiter   *rate.Limiter
	breaker   *resilience.CircuitBreaker
	retry     resilience.RetryConfig
	model     string
	maxTokens int64
}

// New creates a Ranker. Zero config fields fall back to defaults.
func New(client anthropic.Client, cfg Config) *Ranker {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	breaker := cfg.Breaker
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig())
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = resilience.DefaultRetryConfig()
	}
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("anthropic", "rank")
	}

	return &Ranker{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		breaker:   breaker,
		retry:     retry,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Request is one ranking call.
type Request struct {
	Profile    model.ShopperProfile
	Season     string
	Candidates []model.RankingCandidate
	Count      int
	MinScore   float64
}

// Result is the validated outcome of a ranking call. Dropped counts entries
// rejected during validation, kept for observability.
type Result struct {
	Entries []model.RankedEntry
	Dropped int
	Usage   anthropic.TokenUsage
}

// Rank invokes the ranking service and returns validated entries. Transient
// failures are retried per the configured policy; any other error, including
// an unparseable reply, propagates so the caller can fall back.
func (r *Ranker) Rank(ctx context.Context, req Request) (*Result, error) {
	if len(req.Candidates) == 0 {
		return nil, eris.New("ranker: no candidates")
	}

	userMsg, err := BuildUserMessage(req.Profile, req.Candidates, req.Count, req.MinScore)
	if err != nil {
		return nil, eris.Wrap(err, "ranker: build request")
	}

	msgReq := anthropic.MessageRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		System: anthropic.BuildCachedSystemBlocks(
			BuildSystemPrompt(req.Profile.BodyShape, req.Season),
		),
		Messages: []anthropic.Message{
			{Role: "user", Content: userMsg},
		},
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "ranker: rate limit wait")
	}

	resp, err := resilience.DoVal(ctx, r.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.ExecuteVal(ctx, r.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return r.client.CreateMessage(ctx, msgReq)
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "ranker: rank call")
	}

	resp.Usage.LogCost(r.model, "ranking")

	entries, err := parseReply(resp.Text())
	if err != nil {
		return nil, err
	}

	kept, dropped := validateEntries(entries, len(req.Candidates), req.MinScore)
	if dropped > 0 {
		zap.L().Warn("ranker: dropped invalid reply entries",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(kept)),
		)
	}

	return &Result{Entries: kept, Dropped: dropped, Usage: resp.Usage}, nil
}
