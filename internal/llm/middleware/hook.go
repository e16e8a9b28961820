package middleware

import (
	"context"

	llmclient "infographica/internal/llm/client"
)

// CallHook defines callbacks fired around every gateway call, for
// telemetry hooks that need visibility into provider traffic without
// sitting in the retry/cache/cost path itself.
type CallHook interface {
	Before(ctx context.Context, tier, prompt string)
	After(ctx context.Context, tier string, content string, err error)
}

type ctxKeyHook struct{}
type ctxKeyTier struct{}

// WithTier attaches the requested tier name to the context.
func WithTier(ctx context.Context, tier string) context.Context {
	return context.WithValue(ctx, ctxKeyTier{}, tier)
}

// WithCallHook attaches a CallHook to the context. Middleware that calls
// HookFrom(ctx) invokes Before/After around requests.
func WithCallHook(ctx context.Context, hook CallHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context, if any.
func HookFrom(ctx context.Context) CallHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(CallHook); ok {
			return h
		}
	}
	return nil
}

// TierFrom returns the tier name stored in the context.
func TierFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyTier{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// WithHooks wraps a client so HookFrom(ctx).Before/After fire around
// Complete. A no-op when no hook is present in the context.
func WithHooks() Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next llmclient.LLMClient }

func (h *hooked) Name() string            { return h.next.Name() }
func (h *hooked) Close() error            { return h.next.Close() }
func (h *hooked) CountTokens(s string) int { return h.next.CountTokens(s) }
func (h *hooked) TokenCapacity() int       { return h.next.TokenCapacity() }

func (h *hooked) Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (llmclient.Completion, error) {
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, TierFrom(ctx), userPrompt)
	}
	out, err := h.next.Complete(ctx, systemPrompt, userPrompt, images, responseIsJSON)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, TierFrom(ctx), out.Content, err)
	}
	return out, err
}
