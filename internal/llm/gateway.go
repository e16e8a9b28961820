// Package llm implements the multi-provider gateway (spec §4.4): the
// single entry point for every model call, handling cache lookup, tiered
// provider fallback with backoff, and cost accounting.
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	llmclient "infographica/internal/llm/client"
	"infographica/internal/cache"
	"infographica/internal/ierrors"
	"infographica/internal/llm/middleware"
	"infographica/internal/model"
)

// backoffSchedule is the exponential backoff sequence applied between
// rate-limited retries of the same model, per spec §4.4 step 3.
var backoffSchedule = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

const (
	cacheTTL      = time.Hour
	costRetention = 30 * 24 * time.Hour
)

// CompleteOptions carries the per-call parameters of complete() (spec
// §4.4's public operation signature).
type CompleteOptions struct {
	Tier           model.Tier
	ResponseIsJSON bool
	Images         [][]byte
	SkipCache      bool
	CallerID       string
}

// Gateway is the LLM gateway: tier selection has already happened
// (classifier.Classify), cache lookup, provider fallback, and cost
// accounting happen here.
type Gateway struct {
	catalog *Catalog
	cache   cache.Capability
	clock   func() time.Time
}

// New builds a Gateway over catalog's registered tiers, using store for
// response caching and cost-counter persistence.
func New(catalog *Catalog, store cache.Capability) *Gateway {
	return &Gateway{catalog: catalog, cache: store, clock: time.Now}
}

// Complete implements spec §4.4's protocol end to end.
func (g *Gateway) Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompleteOptions) (model.LLMResponse, error) {
	cacheable := !opts.SkipCache && len(opts.Images) == 0
	key := cacheKey(opts.Tier, systemPrompt, userPrompt)

	if cacheable {
		start := g.clock()
		if raw, hit, err := g.cache.Get(ctx, key); err == nil && hit {
			var resp model.LLMResponse
			if err := json.Unmarshal(raw, &resp); err == nil {
				resp.CacheHit = true
				resp.CostUSD = 0
				resp.LatencyMS = time.Since(start).Milliseconds()
				return resp, nil
			}
		}
	}

	chain := g.catalog.Chain(opts.Tier)
	if len(chain) == 0 {
		return model.LLMResponse{}, fmt.Errorf("%w: no models registered for tier %s", ierrors.AllModelsFailed, opts.Tier)
	}

	var lastErr error
	for _, entry := range chain {
		resp, err := g.attemptModel(ctx, entry, systemPrompt, userPrompt, opts)
		if err == nil {
			if cacheable {
				g.store(ctx, key, resp)
			}
			g.accrueCost(ctx, opts.CallerID, resp.CostUSD)
			return resp, nil
		}
		lastErr = err
	}
	return model.LLMResponse{}, fmt.Errorf("%w: %v", ierrors.AllModelsFailed, lastErr)
}

// attemptModel runs the up-to-3-tries-with-backoff protocol for one model
// in the chain: retries only on rate-limit, abandons immediately on
// service-unavailable or a malformed/transport error.
func (g *Gateway) attemptModel(ctx context.Context, entry *catalogEntry, systemPrompt, userPrompt string, opts CompleteOptions) (model.LLMResponse, error) {
	cli, err := entry.client(ctx)
	if err != nil {
		return model.LLMResponse{}, err
	}
	ctx = middleware.WithTier(ctx, string(opts.Tier))

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		start := g.clock()
		out, err := cli.Complete(ctx, systemPrompt, userPrompt, opts.Images, opts.ResponseIsJSON)
		if err == nil {
			cost := entry.reg.Price.Cost(out.InputTokens, out.OutputTokens)
			return model.LLMResponse{
				Content:      out.Content,
				ModelUsed:    entry.reg.Provider + ":" + entry.reg.Model,
				InputTokens:  out.InputTokens,
				OutputTokens: out.OutputTokens,
				CostUSD:      cost,
				LatencyMS:    time.Since(start).Milliseconds(),
			}, nil
		}
		lastErr = err
		if !llmclient.IsRetryable(err) {
			return model.LLMResponse{}, lastErr
		}
		if attempt == len(backoffSchedule)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return model.LLMResponse{}, ctx.Err()
		case <-time.After(backoffSchedule[attempt]):
		}
	}
	return model.LLMResponse{}, lastErr
}

func (g *Gateway) store(ctx context.Context, key string, resp model.LLMResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = g.cache.SetTTL(ctx, key, b, cacheTTL)
}

func (g *Gateway) accrueCost(ctx context.Context, caller string, costUSD float64) {
	if caller == "" || costUSD <= 0 {
		return
	}
	dayKey := "cost:" + caller + ":" + g.clock().UTC().Format("2006-01-02")
	microCents := int64(costUSD * 1_000_000)
	_, _ = g.cache.Incr(ctx, dayKey, microCents, costRetention)
}

func cacheKey(tier model.Tier, system, user string) string {
	h := sha256.New()
	h.Write([]byte(tier))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return hex.EncodeToString(h.Sum(nil))
}
