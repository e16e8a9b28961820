package llmclient

import "context"

// chainEntry is one link of a tier's ordered fallback chain, grounded on
// groq.go's per-model registration table but generalized across providers
// since the gateway never speaks a provider SDK (spec §4.4, §4.6).
type chainEntry struct {
	provider  string
	model     string
	baseURL   string
	apiKeyEnv string
	maxTokens int
	price      PriceTable
	rateLimit  *RateLimitConfig
	vision     bool
}

// defaultChains is the built-in provider-model fallback chain per tier.
// Base URLs are each provider's OpenAI-compatible chat-completions
// endpoint, fixed in this table; RegisterDefaultModels reads only the API
// keys (apiKeyEnv) from the environment.
func defaultChains() map[string][]chainEntry {
	return map[string][]chainEntry{
		"fast": {
			{provider: "groq", model: "llama-3.1-8b-instant", baseURL: "https://api.groq.com/openai/v1/chat/completions", apiKeyEnv: "GROQ_API_KEY", maxTokens: 8000, price: PriceTable{InputPerToken: 0.05e-6, OutputPerToken: 0.08e-6}, rateLimit: &RateLimitConfig{RPM: 30, RPD: 14400, TPM: 6000}},
			{provider: "openai", model: "gpt-4o-mini", baseURL: "https://api.openai.com/v1/chat/completions", apiKeyEnv: "OPENAI_API_KEY", maxTokens: 16000, price: PriceTable{InputPerToken: 0.15e-6, OutputPerToken: 0.6e-6}},
		},
		"standard": {
			{provider: "groq", model: "llama-3.3-70b-versatile", baseURL: "https://api.groq.com/openai/v1/chat/completions", apiKeyEnv: "GROQ_API_KEY", maxTokens: 8000, price: PriceTable{InputPerToken: 0.59e-6, OutputPerToken: 0.79e-6}, rateLimit: &RateLimitConfig{RPM: 30, RPD: 1000, TPM: 12000}},
			{provider: "openai", model: "gpt-4o", baseURL: "https://api.openai.com/v1/chat/completions", apiKeyEnv: "OPENAI_API_KEY", maxTokens: 32000, price: PriceTable{InputPerToken: 2.5e-6, OutputPerToken: 10e-6}},
		},
		"premium": {
			{provider: "openai", model: "gpt-4o", baseURL: "https://api.openai.com/v1/chat/completions", apiKeyEnv: "OPENAI_API_KEY", maxTokens: 32000, price: PriceTable{InputPerToken: 2.5e-6, OutputPerToken: 10e-6}},
			{provider: "openrouter", model: "anthropic/claude-3.5-sonnet", baseURL: "https://openrouter.ai/api/v1/chat/completions", apiKeyEnv: "OPENROUTER_API_KEY", maxTokens: 32000, price: PriceTable{InputPerToken: 3e-6, OutputPerToken: 15e-6}},
			{provider: "groq", model: "openai/gpt-oss-120b", baseURL: "https://api.groq.com/openai/v1/chat/completions", apiKeyEnv: "GROQ_API_KEY", maxTokens: 8000, price: PriceTable{InputPerToken: 0.6e-6, OutputPerToken: 0.9e-6}, rateLimit: &RateLimitConfig{RPM: 30, RPD: 1000, TPM: 8000}},
		},
		"vision": {
			{provider: "openai", model: "gpt-4o", baseURL: "https://api.openai.com/v1/chat/completions", apiKeyEnv: "OPENAI_API_KEY", maxTokens: 32000, price: PriceTable{InputPerToken: 2.5e-6, OutputPerToken: 10e-6}, vision: true},
			{provider: "openrouter", model: "anthropic/claude-3.5-sonnet", baseURL: "https://openrouter.ai/api/v1/chat/completions", apiKeyEnv: "OPENROUTER_API_KEY", maxTokens: 32000, price: PriceTable{InputPerToken: 3e-6, OutputPerToken: 15e-6}, vision: true},
		},
	}
}

// RegisterDefaultModels registers the built-in fallback chains for every
// tier against reg. It is the module-wide equivalent of groq.go's
// RegisterGroqModels, generalized to cover the full multi-provider catalog.
func RegisterDefaultModels(reg ModelRegistrar) error {
	for tier, entries := range defaultChains() {
		for _, e := range entries {
			entry := e
			if err := reg.RegisterModel(ModelRegistration{
				Provider:  entry.provider,
				Tier:      normalizeTier(tier),
				Model:     entry.model,
				MaxTokens: entry.maxTokens,
				Price:     entry.price,
				RateLimit: entry.rateLimit,
				Vision:    entry.vision,
				Factory: func(ctx context.Context, tokenCap int) (LLMClient, error) {
					_ = ctx
					if tokenCap <= 0 {
						tokenCap = entry.maxTokens
					}
					return NewHTTPChatClient(HTTPChatOptions{
						Provider: entry.provider,
						Model:    entry.model,
						BaseURL:  entry.baseURL,
						APIKey:   apiKeyFromEnv(entry.apiKeyEnv),
						TokenCap: tokenCap,
					}), nil
				},
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
