package llmclient

import (
	"context"
	"strings"
)

// ClientFactory lazily builds the underlying provider client for a
// registration the first time it is selected.
type ClientFactory func(ctx context.Context, tokenCap int) (LLMClient, error)

// RateLimitConfig carries the provider's posted rate-limit hints for a
// model, used to size the token-bucket middleware wrapping it.
type RateLimitConfig struct {
	RPM   int
	RPD   int
	TPM   int
	RPS   float64
	Burst int
}

// PriceTable is a provider's posted per-token rate, in USD per token.
type PriceTable struct {
	InputPerToken  float64
	OutputPerToken float64
}

// Cost returns the USD cost of a completion under this price table.
func (p PriceTable) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*p.InputPerToken + float64(outputTokens)*p.OutputPerToken
}

// ModelRegistration is one provider-model entry in a tier's fallback chain.
type ModelRegistration struct {
	Provider  string
	Tier      string
	Model     string
	MaxTokens int
	Price     PriceTable
	RateLimit *RateLimitConfig
	Vision    bool
	Factory   ClientFactory
}

// ModelRegistrar accepts model registrations; implemented by the gateway's
// in-memory catalog.
type ModelRegistrar interface {
	RegisterModel(spec ModelRegistration) error
}

func normalizeTier(tier string) string {
	return strings.ToLower(strings.TrimSpace(tier))
}
