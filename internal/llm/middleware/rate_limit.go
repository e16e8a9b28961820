package middleware

import (
	"context"
	"time"

	llmclient "infographica/internal/llm/client"
)

// rpsLimiter is a lightweight token-bucket limiter throttling to at most R
// events per second with an optional burst capacity.
type rpsLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

// newRPSLimiter creates a limiter allowing up to rps events per second with
// a burst capacity of burst. If rps <= 0, the limiter is disabled (Acquire
// becomes a no-op).
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.tokens <- struct{}{}:
				default:
				}
			case <-l.stopCh:
				return
			}
		}
	}()
	return l
}

// Acquire blocks until a token is available or ctx is canceled.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

// AcquireN acquires n tokens sequentially.
func (l *rpsLimiter) AcquireN(ctx context.Context, n int) error {
	if l == nil || n <= 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		if err := l.Acquire(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop terminates the limiter's refill goroutine.
func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	close(l.stopCh)
}

// RateLimit throttles calls to at most rps per second with the given burst.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next llmclient.LLMClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string            { return c.next.Name() }
func (c *rateLimited) Close() error            { return c.next.Close() }
func (c *rateLimited) CountTokens(s string) int { return c.next.CountTokens(s) }
func (c *rateLimited) TokenCapacity() int       { return c.next.TokenCapacity() }

func (c *rateLimited) Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (llmclient.Completion, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return llmclient.Completion{}, err
	}
	return c.next.Complete(ctx, systemPrompt, userPrompt, images, responseIsJSON)
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// MultiLimit applies combined per-minute and per-day request caps plus a
// tokens-per-minute cap estimated at tokensPerRequest per call, mirroring
// the RPM/RPD/TPM hints providers publish for each model (spec §4.4's
// "provider fallback chain" is sized against exactly this kind of budget).
func MultiLimit(rpm, rpd, tpm int, tokensPerRequest int) Middleware {
	var rpmL, rpdL, tpmL *rpsLimiter
	if rpm > 0 {
		rpmL = newRPSLimiter(float64(rpm)/60.0, max1(rpm))
	}
	if rpd > 0 {
		rpdL = newRPSLimiter(float64(rpd)/86400.0, max1(rpd))
	}
	if tpm > 0 {
		tpmL = newRPSLimiter(float64(tpm)/60.0, max1(tpm))
	}
	if tokensPerRequest < 1 {
		tokensPerRequest = 1
	}
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &multiLimited{next: next, rpm: rpmL, rpd: rpdL, tpm: tpmL, tpr: tokensPerRequest}
	}
}

type multiLimited struct {
	next llmclient.LLMClient
	rpm  *rpsLimiter
	rpd  *rpsLimiter
	tpm  *rpsLimiter
	tpr  int
}

func (m *multiLimited) Name() string            { return m.next.Name() }
func (m *multiLimited) Close() error            { return m.next.Close() }
func (m *multiLimited) CountTokens(s string) int { return m.next.CountTokens(s) }
func (m *multiLimited) TokenCapacity() int       { return m.next.TokenCapacity() }

func (m *multiLimited) Complete(ctx context.Context, systemPrompt, userPrompt string, images [][]byte, responseIsJSON bool) (llmclient.Completion, error) {
	if err := m.rpm.Acquire(ctx); err != nil {
		return llmclient.Completion{}, err
	}
	if err := m.rpd.Acquire(ctx); err != nil {
		return llmclient.Completion{}, err
	}
	if err := m.tpm.AcquireN(ctx, m.tpr); err != nil {
		return llmclient.Completion{}, err
	}
	return m.next.Complete(ctx, systemPrompt, userPrompt, images, responseIsJSON)
}
