package middleware

import (
	"context"

	llmclient "infographica/internal/llm/client"
)

type ctxKeySelectedClient struct{}

// WithSelectedClient stores the model client chosen for this call in the
// context, so outer middleware (usage, logging) can report against its
// real name instead of a generic one.
func WithSelectedClient(ctx context.Context, client llmclient.LLMClient) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeySelectedClient{}, client)
}

// SelectedClientFrom extracts the selected model client from context.
func SelectedClientFrom(ctx context.Context) (llmclient.LLMClient, bool) {
	if ctx == nil {
		return nil, false
	}
	v := ctx.Value(ctxKeySelectedClient{})
	if v == nil {
		return nil, false
	}
	client, ok := v.(llmclient.LLMClient)
	if !ok || client == nil {
		return nil, false
	}
	return client, true
}
