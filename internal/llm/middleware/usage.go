package middleware

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	llmclient "infographica/internal/llm/client"
)

// UsageLedger tracks day-bucketed, per-model request/token/error counts to
// a local JSON file. It is an operator debug aid, distinct from the
// per-caller cost ledger the metering package persists to Postgres.
type UsageLedger struct {
	mu   sync.Mutex
	path string
}

type usageLedgerFile struct {
	UpdatedAt string              `json:"updated_at"`
	Days      map[string]usageDay `json:"days"`
}

type usageDay struct {
	Requests int64                `json:"requests"`
	Tokens   int64                `json:"tokens"`
	Errors   int64                `json:"errors"`
	Models   map[string]usageStat `json:"models"`
}

type usageStat struct {
	Requests int64 `json:"requests"`
	Tokens   int64 `json:"tokens"`
	Errors   int64 `json:"errors"`
}

// NewUsageLedger creates a usage ledger that writes to path.
func NewUsageLedger(path string) *UsageLedger {
	return &UsageLedger{path: path}
}

// WithUsageLedger returns a middleware that records usage to path.
func WithUsageLedger(path string) Middleware {
	ledger := NewUsageLedger(path)
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &usageLedgerClient{next: next, ledger: ledger}
	}
}

type usageLedgerClient struct {
	next   llmclient.LLMClient
	ledger *UsageLedger
}

func (u *usageLedgerClient) Name() string            { return u.next.Name() }
func (u *usageLedgerClient) Close() error            { return u.next.Close() }
func (u *usageLedgerClient) CountTokens(s string) int { return u.next.CountTokens(s) }
func (u *usageLedgerClient) TokenCapacity() int       { return u.next.TokenCapacity() }

func (u *usageLedgerClient) Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (llmclient.Completion, error) {
	out, err := u.next.Complete(ctx, systemPrompt, userPrompt, images, responseIsJSON)
	tokens := out.InputTokens + out.OutputTokens
	if tokens == 0 {
		tokens = u.next.CountTokens(systemPrompt + userPrompt)
	}
	u.writeUsage(ctx, tokens, err)
	return out, err
}

func (u *usageLedgerClient) writeUsage(ctx context.Context, tokens int, err error) {
	if u.ledger == nil || u.ledger.path == "" {
		return
	}
	modelKey := "unknown"
	if selected, ok := SelectedClientFrom(ctx); ok {
		modelKey = selected.Name()
	}
	u.ledger.record(modelKey, int64(tokens), err != nil)
}

func (l *UsageLedger) record(model string, tokens int64, hasErr bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dayKey := time.Now().UTC().Format("2006-01-02")
	f := usageLedgerFile{Days: map[string]usageDay{}}
	if b, err := os.ReadFile(l.path); err == nil {
		_ = json.Unmarshal(b, &f)
		if f.Days == nil {
			f.Days = map[string]usageDay{}
		}
	}

	d := f.Days[dayKey]
	if d.Models == nil {
		d.Models = map[string]usageStat{}
	}
	d.Requests++
	d.Tokens += tokens
	if hasErr {
		d.Errors++
	}
	m := d.Models[model]
	m.Requests++
	m.Tokens += tokens
	if hasErr {
		m.Errors++
	}
	d.Models[model] = m
	f.Days[dayKey] = d
	f.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return
	}
	tmp := l.path + ".tmp"
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, l.path)
}
