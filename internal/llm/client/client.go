// Package llmclient defines the provider-facing side of the LLM gateway: the
// LLMClient interface every provider adapter implements, and the errors the
// gateway distinguishes between when deciding whether to retry a model,
// abandon it for the next in the chain, or give up.
package llmclient

import (
	"context"
	"errors"
	"fmt"
)

// Completion is a single provider response, before cost accounting or
// caching has been applied by the gateway.
type Completion struct {
	Content      string
	InputTokens  int
	OutputTokens int
}

// LLMClient is implemented by one HTTP-based adapter per provider family.
// No provider SDK sits behind it — only net/http and the provider's
// documented chat-completions wire shape, per spec §4.6.
type LLMClient interface {
	Name() string
	Close() error
	CountTokens(text string) int
	TokenCapacity() int
	Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (Completion, error)
}

// RateLimitedError marks a response the gateway must retry with backoff
// rather than abandon outright (spec §4.4 step 3).
type RateLimitedError struct {
	RetryAfterSeconds int
	Err               error
}

func (e *RateLimitedError) Error() string {
	if e.Err == nil {
		return "llmclient: rate limited"
	}
	return fmt.Sprintf("llmclient: rate limited: %v", e.Err)
}
func (e *RateLimitedError) Unwrap() error { return e.Err }

// UnavailableError marks a response the gateway must abandon immediately in
// favor of the next model in the chain (spec §4.4 step 3, "service-unavailable").
type UnavailableError struct{ Err error }

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "llmclient: service unavailable"
	}
	return fmt.Sprintf("llmclient: service unavailable: %v", e.Err)
}
func (e *UnavailableError) Unwrap() error { return e.Err }

// ErrMalformedResponse marks a 2xx response whose body could not be parsed
// into provider-neutral content; also abandoned immediately (spec §4.4 step 3).
var ErrMalformedResponse = errors.New("llmclient: malformed response")

// IsRetryable reports whether err should trigger the gateway's
// retry-with-backoff path (rate-limit) as opposed to an immediate
// move-to-next-model abandonment.
func IsRetryable(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
