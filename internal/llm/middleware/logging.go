package middleware

import (
	"context"
	"log"

	llmclient "infographica/internal/llm/client"
)

// WithLogging logs request size and errors. A nil logger uses log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.LLMClient
	log  *log.Logger
}

func (l *logging) Name() string            { return l.next.Name() }
func (l *logging) Close() error            { return l.next.Close() }
func (l *logging) CountTokens(s string) int { return l.next.CountTokens(s) }
func (l *logging) TokenCapacity() int       { return l.next.TokenCapacity() }

func (l *logging) Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (llmclient.Completion, error) {
	l.log.Printf("llm request (%s tier=%s): %d bytes, images=%d", l.next.Name(), TierFrom(ctx), len(systemPrompt)+len(userPrompt), len(images))
	out, err := l.next.Complete(ctx, systemPrompt, userPrompt, images, responseIsJSON)
	if err != nil {
		l.log.Printf("llm error (%s tier=%s): %v", l.next.Name(), TierFrom(ctx), err)
	}
	return out, err
}
