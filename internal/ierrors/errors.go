// Package ierrors defines the closed error taxonomy surfaced by every stage
// of the generation pipeline. Each sentinel is wrapped with context via
// fmt.Errorf("...: %w", ...) at the point it's detected; callers use
// errors.Is to classify.
package ierrors

import "errors"

var (
	// RateLimited means a sliding-window cap was breached. Retryable after
	// the stated delay.
	RateLimited = errors.New("rate limited")

	// QuotaExceeded means the plan's generations-per-month cap was breached.
	QuotaExceeded = errors.New("quota exceeded")

	// PlanLimitExceeded means a Brief exceeded the plan's max-entities-per-diagram.
	PlanLimitExceeded = errors.New("plan limit exceeded")

	// PlanForbidsTier means the plan's allowed-model-tiers doesn't include
	// the tier the classifier selected.
	PlanForbidsTier = errors.New("plan forbids tier")

	// BriefRejected means the LLM's output failed Brief schema validation
	// twice.
	BriefRejected = errors.New("brief rejected")

	// AllModelsFailed means every provider in a tier's fallback chain was
	// exhausted.
	AllModelsFailed = errors.New("all models failed")

	// Timeout means a caller-provided deadline expired.
	Timeout = errors.New("timeout")

	// InputInvalid means malformed colors, unreadable uploads, or an
	// entity count below 1.
	InputInvalid = errors.New("input invalid")

	// LayoutUnsatisfiable is theoretical: a solver's own guarantees would
	// have to be broken for this to fire.
	LayoutUnsatisfiable = errors.New("layout unsatisfiable")

	// InternalError is the catch-all for unexpected failures.
	InternalError = errors.New("internal error")
)

// Warning is a non-fatal note that travels alongside a successful result
// (spec §7): text didn't fit, uniform scaling was applied, a connector
// label was truncated, provider-level prompt caching was unavailable.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string {
	if w.Stage == "" {
		return w.Message
	}
	return w.Stage + ": " + w.Message
}

// Warnings is an accumulator passed by pointer through a pipeline run.
type Warnings []Warning

// Add appends a warning, tagging it with the stage that raised it.
func (w *Warnings) Add(stage, message string) {
	*w = append(*w, Warning{Stage: stage, Message: message})
}
