package llmclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// HTTPChatClient speaks the OpenAI-compatible chat-completions wire shape
// used by Groq, Together, Fireworks, and most self-hosted gateways, plus
// many first-party providers when addressed through their compatibility
// endpoint. One instance binds a single provider+model pair; the catalog
// registers one per chain entry.
type HTTPChatClient struct {
	http     *http.Client
	provider string
	model    string
	baseURL  string
	apiKey   string
	authHdr  string
	tokenCap int
}

// HTTPChatOptions configures a provider's wire dialect.
type HTTPChatOptions struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	// AuthHeader names the HTTP header carrying the API key, "Authorization"
	// (Bearer-prefixed) by default. Some providers use a bespoke header
	// (e.g. "x-api-key").
	AuthHeader string
	TokenCap   int
}

// NewHTTPChatClient builds a client for one provider-model pair.
func NewHTTPChatClient(opts HTTPChatOptions) *HTTPChatClient {
	if opts.TokenCap <= 0 {
		opts.TokenCap = 8000
	}
	if opts.AuthHeader == "" {
		opts.AuthHeader = "Authorization"
	}
	return &HTTPChatClient{
		http:     &http.Client{Timeout: 15 * time.Second},
		provider: opts.Provider,
		model:    opts.Model,
		baseURL:  opts.BaseURL,
		apiKey:   opts.APIKey,
		authHdr:  opts.AuthHeader,
		tokenCap: opts.TokenCap,
	}
}

func (c *HTTPChatClient) Name() string          { return c.provider + ":" + c.model }
func (c *HTTPChatClient) Close() error          { return nil }
func (c *HTTPChatClient) CountTokens(s string) int { return CountTokens(s) }
func (c *HTTPChatClient) TokenCapacity() int     { return c.tokenCap }

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatReq struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float32           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete implements llmclient.LLMClient.
func (c *HTTPChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (Completion, error) {
	userContent := buildUserContent(userPrompt, images)
	reqBody := chatReq{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: 0,
	}
	if responseIsJSON {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return Completion{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		if strings.EqualFold(c.authHdr, "Authorization") {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		} else {
			req.Header.Set(c.authHdr, c.apiKey)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Completion{}, &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Completion{}, &RateLimitedError{RetryAfterSeconds: retryAfterSeconds(resp.Header), Err: fmt.Errorf("%s: 429", c.Name())}
	}
	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusGatewayTimeout || resp.StatusCode == http.StatusBadGateway {
		return Completion{}, &UnavailableError{Err: fmt.Errorf("%s: %s", c.Name(), resp.Status)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Completion{}, fmt.Errorf("%s: unexpected status %s: %s", c.Name(), resp.Status, string(body))
	}

	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Completion{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return Completion{}, ErrMalformedResponse
	}
	return Completion{
		Content:      out.Choices[0].Message.Content,
		InputTokens:  out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
	}, nil
}

// buildUserContent assembles either a plain string (text-only) or a
// multimodal content array (OpenAI-compatible image_url parts) when images
// are supplied, per spec §4.6's vision-call user message.
func buildUserContent(userPrompt string, images [][]byte) any {
	if len(images) == 0 {
		return userPrompt
	}
	parts := make([]map[string]any, 0, len(images)+1)
	parts = append(parts, map[string]any{"type": "text", "text": userPrompt})
	for _, img := range images {
		dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
		parts = append(parts, map[string]any{"type": "image_url", "image_url": map[string]string{"url": dataURL}})
	}
	return parts
}

func retryAfterSeconds(h http.Header) int {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func apiKeyFromEnv(envVar string) string {
	return strings.TrimSpace(os.Getenv(envVar))
}
