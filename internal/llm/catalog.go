package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	llmclient "infographica/internal/llm/client"
	"infographica/internal/llm/middleware"
	"infographica/internal/model"
)

// catalogEntry pairs a model registration with its lazily-built,
// middleware-wrapped client.
type catalogEntry struct {
	reg llmclient.ModelRegistration

	mu     sync.Mutex
	client llmclient.LLMClient
}

// Catalog holds each tier's ordered fallback chain of provider-model
// entries, mirroring the teacher's InMemoryModelRegistry but keyed by the
// domain's closed Tier set instead of an open model-level string.
type Catalog struct {
	mu     sync.RWMutex
	chains map[model.Tier][]*catalogEntry
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{chains: map[model.Tier][]*catalogEntry{}}
}

// RegisterModel implements llmclient.ModelRegistrar, appending spec to its
// tier's fallback chain in registration order.
func (c *Catalog) RegisterModel(spec llmclient.ModelRegistration) error {
	if spec.Factory == nil {
		return fmt.Errorf("catalog: register model: factory is nil")
	}
	tier := model.Tier(strings.ToUpper(strings.TrimSpace(spec.Tier)))
	switch tier {
	case model.TierFast, model.TierStandard, model.TierPremium, model.TierVision:
	default:
		return fmt.Errorf("catalog: register model: unrecognized tier %q", spec.Tier)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chains[tier] = append(c.chains[tier], &catalogEntry{reg: spec})
	return nil
}

// Chain returns the ordered fallback chain for tier.
func (c *Catalog) Chain(tier model.Tier) []*catalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*catalogEntry(nil), c.chains[tier]...)
}

// client lazily builds and middleware-wraps the entry's underlying client.
func (e *catalogEntry) client(ctx context.Context) (llmclient.LLMClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}
	raw, err := e.reg.Factory(ctx, e.reg.MaxTokens)
	if err != nil {
		return nil, err
	}
	mws := []middleware.Middleware{middleware.WithHooks(), middleware.WithLogging(nil)}
	if rl := e.reg.RateLimit; rl != nil {
		mws = append(mws, middleware.MultiLimit(rl.RPM, rl.RPD, rl.TPM, 1000))
	}
	e.client = middleware.Chain(raw, mws...)
	return e.client, nil
}
