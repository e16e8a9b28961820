package middleware

import (
	"context"
	"testing"

	llmclient "infographica/internal/llm/client"
)

type fakeClient struct {
	name  string
	calls int
}

func (f *fakeClient) Name() string            { return f.name }
func (f *fakeClient) Close() error            { return nil }
func (f *fakeClient) CountTokens(s string) int { return len(s) }
func (f *fakeClient) TokenCapacity() int       { return 1024 }
func (f *fakeClient) Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (llmclient.Completion, error) {
	f.calls++
	return llmclient.Completion{Content: "{}", InputTokens: 1, OutputTokens: 1}, nil
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	inner := &fakeClient{name: "inner"}
	cli := RateLimit(0, 0)(inner)
	if _, err := cli.Complete(context.Background(), "sys", "user", nil, true); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestMultiLimitZeroIsNoop(t *testing.T) {
	inner := &fakeClient{name: "inner"}
	cli := MultiLimit(0, 0, 0, 1000)(inner)
	for i := 0; i < 3; i++ {
		if _, err := cli.Complete(context.Background(), "sys", "user", nil, true); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestHooksFireBeforeAndAfter(t *testing.T) {
	inner := &fakeClient{name: "inner"}
	cli := WithHooks()(inner)

	var before, after int
	hook := recordingHook{before: &before, after: &after}
	ctx := WithCallHook(context.Background(), hook)
	ctx = WithTier(ctx, "fast")

	if _, err := cli.Complete(ctx, "sys", "user", nil, true); err != nil {
		t.Fatal(err)
	}
	if before != 1 || after != 1 {
		t.Fatalf("expected hook to fire once each way, got before=%d after=%d", before, after)
	}
}

type recordingHook struct {
	before *int
	after  *int
}

func (h recordingHook) Before(ctx context.Context, tier, prompt string) { *h.before++ }
func (h recordingHook) After(ctx context.Context, tier, content string, err error) { *h.after++ }
