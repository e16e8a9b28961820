// Package meter implements the plan tiers, sliding-window rate limiter, and
// GenerationRecord store of spec.md §4.8: admission control consulted
// before the gateway is ever called.
package meter

import "infographica/internal/model"

// Plan is one of the closed set of plan tiers spec.md §4.8 names.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanBusiness   Plan = "business"
	PlanEnterprise Plan = "enterprise"
)

// Limits is the recognized option set for a plan tier (spec.md §4.8).
type Limits struct {
	GenerationsPerMonth   int // -1 disables the cap
	MaxEntitiesPerDiagram int
	AllowedModelTiers     []model.Tier
	AllowedOutputFormats  []model.OutputFormat
	ArtifactTTLHours      int
	RequestsPerMinute     int
	RequestsPerDay        int
}

func (l Limits) allowsTier(t model.Tier) bool {
	for _, allowed := range l.AllowedModelTiers {
		if allowed == t {
			return true
		}
	}
	return false
}

func (l Limits) allowsFormat(f model.OutputFormat) bool {
	for _, allowed := range l.AllowedOutputFormats {
		if allowed == f {
			return true
		}
	}
	return false
}

// defaultLimits is the closed table of built-in plan tiers. A deployment
// wanting different numbers constructs its own map and passes it to
// NewWithLimits instead of editing this table.
func defaultLimits() map[Plan]Limits {
	return map[Plan]Limits{
		PlanFree: {
			GenerationsPerMonth:   20,
			MaxEntitiesPerDiagram: 10,
			AllowedModelTiers:     []model.Tier{model.TierFast},
			AllowedOutputFormats:  []model.OutputFormat{model.OutputSVG},
			ArtifactTTLHours:      24,
			RequestsPerMinute:     3,
			RequestsPerDay:        50,
		},
		PlanPro: {
			GenerationsPerMonth:   300,
			MaxEntitiesPerDiagram: 15,
			AllowedModelTiers:     []model.Tier{model.TierFast, model.TierStandard},
			AllowedOutputFormats:  []model.OutputFormat{model.OutputSVG, model.OutputEditableSlide},
			ArtifactTTLHours:      24 * 7,
			RequestsPerMinute:     10,
			RequestsPerDay:        500,
		},
		PlanBusiness: {
			GenerationsPerMonth:   2000,
			MaxEntitiesPerDiagram: 15,
			AllowedModelTiers:     []model.Tier{model.TierFast, model.TierStandard, model.TierPremium, model.TierVision},
			AllowedOutputFormats:  []model.OutputFormat{model.OutputSVG, model.OutputEditableSlide, model.OutputRaster},
			ArtifactTTLHours:      24 * 30,
			RequestsPerMinute:     30,
			RequestsPerDay:        3000,
		},
		PlanEnterprise: {
			GenerationsPerMonth:   -1,
			MaxEntitiesPerDiagram: 15,
			AllowedModelTiers:     []model.Tier{model.TierFast, model.TierStandard, model.TierPremium, model.TierVision},
			AllowedOutputFormats:  []model.OutputFormat{model.OutputSVG, model.OutputEditableSlide, model.OutputRaster},
			ArtifactTTLHours:      24 * 90,
			RequestsPerMinute:     120,
			RequestsPerDay:        -1,
		},
	}
}
