package config

import (
	"context"
	"fmt"
	"os"

	llmclient "infographica/internal/llm/client"
)

// providerBaseURLs names the OpenAI-compatible chat-completions endpoint
// for each provider spec.md §6's default-model-map may reference, mirrored
// from internal/llm/client/register.go's built-in chain table.
var providerBaseURLs = map[string]string{
	"groq":       "https://api.groq.com/openai/v1/chat/completions",
	"openai":     "https://api.openai.com/v1/chat/completions",
	"openrouter": "https://openrouter.ai/api/v1/chat/completions",
}

// RegisterModels registers either the gateway's built-in fallback chains
// (internal/llm/client.RegisterDefaultModels) or, when the operator has
// supplied spec.md §6's default-model-map, the overriding chain this
// config carries instead.
func (c *Config) RegisterModels(reg llmclient.ModelRegistrar) error {
	if len(c.DefaultModelMap) == 0 {
		return llmclient.RegisterDefaultModels(reg)
	}
	for tier, chain := range c.DefaultModelMap {
		for _, entry := range chain {
			baseURL, ok := providerBaseURLs[entry.Provider]
			if !ok {
				return fmt.Errorf("config: default-model-map: unknown provider %q", entry.Provider)
			}
			e := entry
			if err := reg.RegisterModel(llmclient.ModelRegistration{
				Provider:  e.Provider,
				Tier:      string(tier),
				Model:     e.Model,
				MaxTokens: e.MaxTokens,
				Price:     llmclient.PriceTable{InputPerToken: e.InputPerTokenUSD, OutputPerToken: e.OutputPerTokenUSD},
				Factory: func(ctx context.Context, tokenCap int) (llmclient.LLMClient, error) {
					_ = ctx
					return llmclient.NewHTTPChatClient(llmclient.HTTPChatOptions{
						Provider: e.Provider,
						Model:    e.Model,
						BaseURL:  baseURL,
						APIKey:   os.Getenv(e.APIKeyEnv),
						TokenCap: tokenCap,
					}), nil
				},
			}); err != nil {
				return fmt.Errorf("config: register %s/%s: %w", e.Provider, e.Model, err)
			}
		}
	}
	return nil
}
