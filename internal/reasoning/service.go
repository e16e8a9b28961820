// Package reasoning builds the Brief a prompt describes: it assembles the
// system/user messages, invokes the LLM gateway, and validates and repairs
// the returned JSON (spec.md §4.6).
package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"infographica/internal/color"
	"infographica/internal/ierrors"
	"infographica/internal/llm"
	"infographica/internal/model"
)

// Service turns a GenerateRequest into a validated Brief.
type Service struct {
	gateway *llm.Gateway
}

// New builds a Service over gateway.
func New(gateway *llm.Gateway) *Service {
	return &Service{gateway: gateway}
}

// BriefResult bundles a validated Brief with the LLMResponse metadata that
// produced it, for callers (the orchestrator) that need to carry model
// usage into a GenerationRecord without this module ever exposing a raw
// provider SDK type.
type BriefResult struct {
	Brief     model.Brief
	ModelUsed string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	CacheHit     bool
}

// GenerateBrief implements spec.md §4.6: build messages, call the gateway
// at tier with response-is-json, parse and validate; on one validation
// failure retry once with the errors appended; after two failed attempts
// surface ierrors.BriefRejected. A gateway ierrors.AllModelsFailed is
// returned as is, without a retry.
func (s *Service) GenerateBrief(ctx context.Context, req model.GenerateRequest, tier model.Tier, preset *model.Theme) (model.Brief, error) {
	result, err := s.GenerateBriefDetailed(ctx, req, tier, preset)
	return result.Brief, err
}

// GenerateBriefDetailed is GenerateBrief plus the LLMResponse metadata the
// call that succeeded carried, so the orchestrator can populate a
// GenerationRecord's model/token/cost/cache-hit fields.
func (s *Service) GenerateBriefDetailed(ctx context.Context, req model.GenerateRequest, tier model.Tier, preset *model.Theme) (BriefResult, error) {
	system := buildSystemMessage()
	user := buildUserMessage(req, preset)

	result, err := s.attempt(ctx, req, tier, system, user)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, ierrors.AllModelsFailed) {
		return BriefResult{}, err
	}

	retryUser := appendValidationRetry(user, validationMessages(err))
	result, retryErr := s.attempt(ctx, req, tier, system, retryUser)
	if retryErr == nil {
		return result, nil
	}
	if errors.Is(retryErr, ierrors.AllModelsFailed) {
		return BriefResult{}, retryErr
	}
	return BriefResult{}, fmt.Errorf("%w: %v", ierrors.BriefRejected, retryErr)
}

func (s *Service) attempt(ctx context.Context, req model.GenerateRequest, tier model.Tier, system, user string) (BriefResult, error) {
	resp, err := s.gateway.Complete(ctx, system, user, llm.CompleteOptions{
		Tier:           tier,
		ResponseIsJSON: true,
		Images:         req.Images,
		SkipCache:      req.SkipCache,
		CallerID:       req.CallerID,
	})
	if err != nil {
		return BriefResult{}, err
	}

	var brief model.Brief
	if err := json.Unmarshal([]byte(resp.Content), &brief); err != nil {
		return BriefResult{}, fmt.Errorf("reasoning: decode brief: %w", err)
	}
	normalize(&brief)
	if err := brief.Validate(); err != nil {
		return BriefResult{}, err
	}
	return BriefResult{
		Brief:        brief,
		ModelUsed:    resp.ModelUsed,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		CostUSD:      resp.CostUSD,
		CacheHit:     resp.CacheHit,
	}, nil
}

// normalize applies spec.md §4.6's post-processing: lowercase/strip-'#'
// hex colors, de-duplicate entity ids by suffixing.
func normalize(b *model.Brief) {
	b.Theme.Primary = normalizeHexOrKeep(b.Theme.Primary)
	b.Theme.Secondary = normalizeHexOrKeep(b.Theme.Secondary)
	b.Theme.Accent = normalizeHexOrKeep(b.Theme.Accent)
	b.Theme.Background = normalizeHexOrKeep(b.Theme.Background)
	b.Theme.Text = normalizeHexOrKeep(b.Theme.Text)

	// The first entity holding a given id keeps it unchanged, so any
	// layer/connection reference to that id still resolves correctly.
	// Later duplicates get a distinct suffix and end up unreferenced,
	// which is an acceptable degenerate outcome for malformed LLM output.
	seen := make(map[string]int, len(b.Entities))
	for i, e := range b.Entities {
		n := seen[e.ID]
		seen[e.ID] = n + 1
		if n > 0 {
			b.Entities[i].ID = fmt.Sprintf("%s-%d", e.ID, n)
		}
	}
}

func normalizeHexOrKeep(hex string) string {
	if hex == "" {
		return hex
	}
	norm, err := color.Normalize(hex)
	if err != nil {
		return hex
	}
	return norm
}

func validationMessages(err error) []string {
	if err == nil {
		return nil
	}
	return []string{err.Error()}
}
