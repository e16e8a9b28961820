package llm

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"infographica/internal/cache/memory"
	llmclient "infographica/internal/llm/client"
	"infographica/internal/model"
)

// scriptedClient replays a fixed sequence of responses/errors per call,
// holding the last one once the script is exhausted.
type scriptedClient struct {
	name    string
	script  []func() (llmclient.Completion, error)
	calls   int32
	lastArg [][]byte
}

func (c *scriptedClient) Name() string                { return c.name }
func (c *scriptedClient) Close() error                 { return nil }
func (c *scriptedClient) CountTokens(s string) int     { return len(s) / 4 }
func (c *scriptedClient) TokenCapacity() int            { return 8000 }
func (c *scriptedClient) Complete(ctx context.Context, system, user string, images [][]byte, jsonMode bool) (llmclient.Completion, error) {
	i := atomic.AddInt32(&c.calls, 1) - 1
	c.lastArg = images
	if int(i) >= len(c.script) {
		i = int32(len(c.script) - 1)
	}
	return c.script[i]()
}

func fixedFactory(cli llmclient.LLMClient) llmclient.ClientFactory {
	return func(ctx context.Context, tokenCap int) (llmclient.LLMClient, error) { return cli, nil }
}

func ok(content string) func() (llmclient.Completion, error) {
	return func() (llmclient.Completion, error) {
		return llmclient.Completion{Content: content, InputTokens: 10, OutputTokens: 20}, nil
	}
}

func rateLimited() func() (llmclient.Completion, error) {
	return func() (llmclient.Completion, error) {
		return llmclient.Completion{}, &llmclient.RateLimitedError{RetryAfterSeconds: 1}
	}
}

func unavailable() func() (llmclient.Completion, error) {
	return func() (llmclient.Completion, error) {
		return llmclient.Completion{}, &llmclient.UnavailableError{Err: errors.New("503")}
	}
}

func newTestGateway(t *testing.T, chain ...*scriptedClient) (*Gateway, *Catalog) {
	t.Helper()
	cat := NewCatalog()
	for i, cli := range chain {
		err := cat.RegisterModel(llmclient.ModelRegistration{
			Provider:  cli.name,
			Tier:      "FAST",
			Model:     cli.name,
			MaxTokens: 8000,
			Price:     llmclient.PriceTable{InputPerToken: 0.000001 * float64(i+1), OutputPerToken: 0.000002 * float64(i+1)},
			Factory:   fixedFactory(cli),
		})
		if err != nil {
			t.Fatalf("register model %d: %v", i, err)
		}
	}
	store := memory.New()
	gw := New(cat, store)
	gw.clock = func() time.Time { return time.Unix(0, 0) }
	return gw, cat
}

// S2: a second call with the same tier/system/user hits the cache and
// carries zero cost.
func TestGatewayCacheHit(t *testing.T) {
	primary := &scriptedClient{name: "primary", script: []func() (llmclient.Completion, error){ok("hello")}}
	gw, _ := newTestGateway(t, primary)
	ctx := context.Background()

	first, err := gw.Complete(ctx, "sys", "user", CompleteOptions{Tier: model.TierFast, CallerID: "acct"})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if first.CacheHit {
		t.Fatal("first call should not be a cache hit")
	}
	if first.CostUSD <= 0 {
		t.Fatal("first call should carry nonzero cost")
	}

	second, err := gw.Complete(ctx, "sys", "user", CompleteOptions{Tier: model.TierFast, CallerID: "acct"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !second.CacheHit {
		t.Fatal("second identical call should be a cache hit")
	}
	if second.CostUSD != 0 {
		t.Fatalf("cache-hit cost should be zero, got %v", second.CostUSD)
	}
	if atomic.LoadInt32(&primary.calls) != 1 {
		t.Fatalf("expected exactly one underlying call, got %d", primary.calls)
	}
}

// S3: the primary model returns service-unavailable once; the gateway
// abandons it immediately and succeeds from the next model in the chain,
// with no backoff wait and cost drawn from the second model's price table.
func TestGatewayFallsBackOnUnavailable(t *testing.T) {
	primary := &scriptedClient{name: "primary", script: []func() (llmclient.Completion, error){unavailable()}}
	secondary := &scriptedClient{name: "secondary", script: []func() (llmclient.Completion, error){ok("from secondary")}}
	gw, _ := newTestGateway(t, primary, secondary)
	ctx := context.Background()

	start := time.Now()
	resp, err := gw.Complete(ctx, "sys", "user", CompleteOptions{Tier: model.TierFast, SkipCache: true})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("expected success from fallback model, got %v", err)
	}
	if resp.ModelUsed != "secondary:secondary" {
		t.Fatalf("got model %q, want secondary", resp.ModelUsed)
	}
	if want := 10*0.000002 + 20*0.000004; math.Abs(resp.CostUSD-want) > 1e-12 {
		t.Fatalf("got cost %v, want %v from the secondary model's price table", resp.CostUSD, want)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("expected no backoff wait on unavailable, took %v", elapsed)
	}
	if atomic.LoadInt32(&primary.calls) != 1 {
		t.Fatalf("expected exactly one attempt on primary, got %d", primary.calls)
	}
}

// S4: the primary model rate-limits twice then succeeds; the gateway
// retries with backoff and waits at least 1s+2s before succeeding, never
// touching the next model in the chain.
func TestGatewayRetriesOnRateLimit(t *testing.T) {
	primary := &scriptedClient{name: "primary", script: []func() (llmclient.Completion, error){
		rateLimited(), rateLimited(), ok("third try"),
	}}
	secondary := &scriptedClient{name: "secondary", script: []func() (llmclient.Completion, error){ok("should not be used")}}
	gw, _ := newTestGateway(t, primary, secondary)
	ctx := context.Background()

	start := time.Now()
	resp, err := gw.Complete(ctx, "sys", "user", CompleteOptions{Tier: model.TierFast, SkipCache: true})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if resp.ModelUsed != "primary:primary" {
		t.Fatalf("got model %q, want primary", resp.ModelUsed)
	}
	if elapsed < 3*time.Second {
		t.Fatalf("expected at least 3s of backoff wait, took %v", elapsed)
	}
	if atomic.LoadInt32(&secondary.calls) != 0 {
		t.Fatal("secondary model should never have been called")
	}
}

func TestGatewayAllModelsFailedOnExhaustion(t *testing.T) {
	primary := &scriptedClient{name: "primary", script: []func() (llmclient.Completion, error){unavailable()}}
	gw, _ := newTestGateway(t, primary)
	ctx := context.Background()

	_, err := gw.Complete(ctx, "sys", "user", CompleteOptions{Tier: model.TierFast, SkipCache: true})
	if err == nil {
		t.Fatal("expected error when every model in the chain fails")
	}
}
