package config

import (
	"fmt"

	"infographica/internal/meter"
	"infographica/internal/model"
)

// MeterLimits converts PlanLimits/RateLimitPerPlan into the map
// meter.NewWithLimits expects, validating that every plan name in the
// config is one of the closed meter.Plan values.
func (c *Config) MeterLimits() (map[meter.Plan]meter.Limits, error) {
	out := make(map[meter.Plan]meter.Limits, len(c.PlanLimits))
	for name, pl := range c.PlanLimits {
		plan, err := toPlan(name)
		if err != nil {
			return nil, err
		}
		tiers, err := toTiers(pl.AllowedModelTiers)
		if err != nil {
			return nil, fmt.Errorf("config: plan %q: %w", name, err)
		}
		formats, err := toFormats(pl.AllowedOutputFormats)
		if err != nil {
			return nil, fmt.Errorf("config: plan %q: %w", name, err)
		}
		rl := c.RateLimitPerPlan[name]
		out[plan] = meter.Limits{
			GenerationsPerMonth:   pl.GenerationsPerMonth,
			MaxEntitiesPerDiagram: pl.MaxEntitiesPerDiagram,
			AllowedModelTiers:     tiers,
			AllowedOutputFormats:  formats,
			ArtifactTTLHours:      pl.ArtifactTTLHours,
			RequestsPerMinute:     rl.RequestsPerMinute,
			RequestsPerDay:        rl.RequestsPerDay,
		}
	}
	return out, nil
}

func toPlan(name string) (meter.Plan, error) {
	switch meter.Plan(name) {
	case meter.PlanFree, meter.PlanPro, meter.PlanBusiness, meter.PlanEnterprise:
		return meter.Plan(name), nil
	default:
		return "", fmt.Errorf("config: unrecognized plan %q", name)
	}
}

func toTiers(names []string) ([]model.Tier, error) {
	out := make([]model.Tier, 0, len(names))
	for _, n := range names {
		switch model.Tier(n) {
		case model.TierFast, model.TierStandard, model.TierPremium, model.TierVision:
			out = append(out, model.Tier(n))
		default:
			return nil, fmt.Errorf("unrecognized model tier %q", n)
		}
	}
	return out, nil
}

func toFormats(names []string) ([]model.OutputFormat, error) {
	out := make([]model.OutputFormat, 0, len(names))
	for _, n := range names {
		switch model.OutputFormat(n) {
		case model.OutputEditableSlide, model.OutputSVG, model.OutputRaster:
			out = append(out, model.OutputFormat(n))
		default:
			return nil, fmt.Errorf("unrecognized output format %q", n)
		}
	}
	return out, nil
}
