package meter

import (
	"context"
	"fmt"
	"time"

	"infographica/internal/ierrors"
	"infographica/internal/model"
)

// Meter is the admission-control façade the orchestrator consults before
// and after a pipeline run (spec.md §4.8/§4.9 steps 1, 2, 5, 10).
type Meter struct {
	limits  map[Plan]Limits
	limiter *RateLimiter
	records RecordStore
}

// New builds a Meter over the built-in plan table. Use NewWithLimits to
// override it (e.g. from configuration).
func New(limiter *RateLimiter, records RecordStore) *Meter {
	return &Meter{limits: defaultLimits(), limiter: limiter, records: records}
}

// NewWithLimits builds a Meter over a caller-supplied plan table.
func NewWithLimits(limits map[Plan]Limits, limiter *RateLimiter, records RecordStore) *Meter {
	return &Meter{limits: limits, limiter: limiter, records: records}
}

func (m *Meter) limitsFor(plan Plan) (Limits, error) {
	l, ok := m.limits[plan]
	if !ok {
		return Limits{}, fmt.Errorf("%w: unrecognized plan %q", ierrors.InputInvalid, plan)
	}
	return l, nil
}

// CheckRate enforces the per-minute/per-day caps (spec.md §4.9 step 1).
func (m *Meter) CheckRate(ctx context.Context, caller string, plan Plan, now time.Time) error {
	limits, err := m.limitsFor(plan)
	if err != nil {
		return err
	}
	return m.limiter.Check(ctx, caller, limits, now)
}

// CheckQuota enforces generations-per-month (spec.md §4.9 step 2).
func (m *Meter) CheckQuota(ctx context.Context, caller string, plan Plan, now time.Time) error {
	limits, err := m.limitsFor(plan)
	if err != nil {
		return err
	}
	if limits.GenerationsPerMonth < 0 {
		return nil
	}
	count, err := m.records.CountThisMonth(ctx, caller, now)
	if err != nil {
		return fmt.Errorf("meter: check quota: %w", err)
	}
	if count >= limits.GenerationsPerMonth {
		return fmt.Errorf("%w: %d generations this month reaches the cap of %d", ierrors.QuotaExceeded, count, limits.GenerationsPerMonth)
	}
	return nil
}

// CheckBrief enforces max-entities-per-diagram (spec.md §4.9 step 5).
func (m *Meter) CheckBrief(plan Plan, brief model.Brief) error {
	limits, err := m.limitsFor(plan)
	if err != nil {
		return err
	}
	if len(brief.Entities) > limits.MaxEntitiesPerDiagram {
		return fmt.Errorf("%w: %d entities exceeds plan cap of %d", ierrors.PlanLimitExceeded, len(brief.Entities), limits.MaxEntitiesPerDiagram)
	}
	return nil
}

// CheckTier enforces allowed-model-tiers (spec.md §4.8, gateway admission).
func (m *Meter) CheckTier(plan Plan, tier model.Tier) error {
	limits, err := m.limitsFor(plan)
	if err != nil {
		return err
	}
	if !limits.allowsTier(tier) {
		return fmt.Errorf("%w: plan %q does not permit tier %q", ierrors.PlanForbidsTier, plan, tier)
	}
	return nil
}

// AllowedFormats narrows a requested output set to those the plan allows
// (spec.md §4.8: "Renderers for other formats are not invoked").
func (m *Meter) AllowedFormats(plan Plan, requested []model.OutputFormat) ([]model.OutputFormat, error) {
	limits, err := m.limitsFor(plan)
	if err != nil {
		return nil, err
	}
	out := make([]model.OutputFormat, 0, len(requested))
	for _, f := range requested {
		if limits.allowsFormat(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ArtifactTTL returns the plan's artifact-ttl-hours as a time.Duration
// (spec.md §4.8/§4.9 step 9).
func (m *Meter) ArtifactTTL(plan Plan) (time.Duration, error) {
	limits, err := m.limitsFor(plan)
	if err != nil {
		return 0, err
	}
	return time.Duration(limits.ArtifactTTLHours) * time.Hour, nil
}

// Record persists a GenerationRecord at pipeline termination regardless of
// outcome (spec.md §4.8: "Metering writes a GenerationRecord ... regardless
// of success"). Save is idempotent on rec.ID.
func (m *Meter) Record(ctx context.Context, rec model.GenerationRecord) error {
	return m.records.Save(ctx, rec)
}
