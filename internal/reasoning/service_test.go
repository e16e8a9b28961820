package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"infographica/internal/cache/memory"
	"infographica/internal/ierrors"
	"infographica/internal/llm"
	llmclient "infographica/internal/llm/client"
	"infographica/internal/model"
)

func validBriefJSON() string {
	b, _ := json.Marshal(model.Brief{
		SchemaVersion: model.SchemaVersion,
		DiagramType:   model.ArchetypeProcessFlow,
		Title:         "Onboarding",
		Entities: []model.Entity{
			{ID: "a", Label: "Sign up", Emphasis: model.EmphasisPrimary},
			{ID: "b", Label: "Verify", Emphasis: model.EmphasisNormal},
		},
		Connections: []model.Connection{{FromID: "a", ToID: "b", Style: model.ConnectionArrow}},
		Theme:       model.Theme{Primary: "0073E6", Background: "FFFFFF", Text: "000000"},
	})
	return string(b)
}

type scriptedCompletion struct {
	content string
	err     error
}

type fakeClient struct {
	script []scriptedCompletion
	i      int
	calls  int
}

func (f *fakeClient) Name() string             { return "fake" }
func (f *fakeClient) Close() error              { return nil }
func (f *fakeClient) CountTokens(s string) int  { return len(s) }
func (f *fakeClient) TokenCapacity() int        { return 8000 }
func (f *fakeClient) Complete(ctx context.Context, system, user string, images [][]byte, jsonMode bool) (llmclient.Completion, error) {
	f.calls++
	s := f.script[f.i]
	if f.i < len(f.script)-1 {
		f.i++
	}
	if s.err != nil {
		return llmclient.Completion{}, s.err
	}
	return llmclient.Completion{Content: s.content, InputTokens: 5, OutputTokens: 5}, nil
}

func newServiceWithClient(t *testing.T, cli llmclient.LLMClient) *Service {
	t.Helper()
	cat := llm.NewCatalog()
	err := cat.RegisterModel(llmclient.ModelRegistration{
		Provider: "fake", Tier: "FAST", Model: "fake-1", MaxTokens: 8000,
		Factory: func(ctx context.Context, tokenCap int) (llmclient.LLMClient, error) { return cli, nil },
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	gw := llm.New(cat, memory.New())
	return New(gw)
}

func TestGenerateBriefSuccess(t *testing.T) {
	cli := &fakeClient{script: []scriptedCompletion{{content: validBriefJSON()}}}
	svc := newServiceWithClient(t, cli)

	req := model.GenerateRequest{Prompt: "Show our onboarding flow", CallerID: "acct"}
	brief, err := svc.GenerateBrief(context.Background(), req, model.TierFast, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brief.DiagramType != model.ArchetypeProcessFlow {
		t.Fatalf("got %v", brief.DiagramType)
	}
	if brief.Theme.Primary != "0073e6" {
		t.Fatalf("expected normalized lowercase hex, got %q", brief.Theme.Primary)
	}
}

func TestGenerateBriefRetriesOnceThenRejects(t *testing.T) {
	cli := &fakeClient{script: []scriptedCompletion{
		{content: "not json"},
		{content: "still not json"},
	}}
	svc := newServiceWithClient(t, cli)

	req := model.GenerateRequest{Prompt: "Show our onboarding flow"}
	_, err := svc.GenerateBrief(context.Background(), req, model.TierFast, nil)
	if !errors.Is(err, ierrors.BriefRejected) {
		t.Fatalf("expected BriefRejected, got %v", err)
	}
	if cli.calls != 2 {
		t.Fatalf("expected exactly two attempts, got %d", cli.calls)
	}
}

func TestGenerateBriefRecoversOnRetry(t *testing.T) {
	cli := &fakeClient{script: []scriptedCompletion{
		{content: "not json"},
		{content: validBriefJSON()},
	}}
	svc := newServiceWithClient(t, cli)

	req := model.GenerateRequest{Prompt: "Show our onboarding flow"}
	brief, err := svc.GenerateBrief(context.Background(), req, model.TierFast, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brief.Title != "Onboarding" {
		t.Fatalf("got title %q", brief.Title)
	}
}

func TestNormalizeDedupesEntityIDs(t *testing.T) {
	b := model.Brief{
		SchemaVersion: model.SchemaVersion,
		DiagramType:   model.ArchetypeProcessFlow,
		Title:         "X",
		Entities: []model.Entity{
			{ID: "a", Label: "First"},
			{ID: "a", Label: "Second"},
		},
		Theme: model.Theme{Background: "ffffff"},
	}
	normalize(&b)
	if b.Entities[0].ID != "a" {
		t.Fatalf("first entity id should stay %q, got %q", "a", b.Entities[0].ID)
	}
	if b.Entities[1].ID == "a" {
		t.Fatal("second entity id should have been suffixed")
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected valid brief after dedup, got %v", err)
	}
}

func TestBuildSystemMessageMentionsNoStockImagery(t *testing.T) {
	msg := buildSystemMessage()
	if !strings.Contains(msg, "never describe or request stock imagery") {
		t.Fatal("expected spatial/style rules to forbid stock imagery")
	}
}

func TestBuildUserMessageIncludesPalette(t *testing.T) {
	req := model.GenerateRequest{Prompt: "hello", Palette: []string{"0073e6", "ffffff"}}
	msg := buildUserMessage(req, nil)
	if !strings.Contains(msg, "0073e6, ffffff") {
		t.Fatalf("expected palette in user message, got %q", msg)
	}
}
