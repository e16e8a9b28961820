// Package classifier implements the complexity classifier (spec §4.5): a
// pure function choosing the LLM gateway tier for a generation request
// before any model call is made.
package classifier

import (
	"strings"

	"infographica/internal/model"
)

// lexicon is the fixed complexity vocabulary scanned in prompt text when no
// diagram-type hint settles the tier outright.
var lexicon = []string{
	"marketecture",
	"architecture",
	"ecosystem",
	"cross-cutting",
	"integration",
	"platform",
	"multi-layer",
	"hierarchy",
	"organizational",
	"value chain",
	"business units",
}

var fastHintedTypes = map[model.Archetype]bool{
	model.ArchetypeProcessFlow: true,
	model.ArchetypeTimeline:    true,
	model.ArchetypeComparison:  true,
}

var premiumHintedTypes = map[model.Archetype]bool{
	model.ArchetypeMarketecture: true,
	model.ArchetypeOrgStructure: true,
	model.ArchetypeHubSpoke:     true,
	model.ArchetypeValueChain:   true,
}

// Classify selects a tier per spec §4.5's ordered rules: images force
// VISION; a recognized diagram-type hint settles FAST/STANDARD/PREMIUM
// directly; otherwise the prompt is scanned for complexity-lexicon hits.
// diagramHint is the caller-supplied hint (req.DiagramHint), not a Brief's
// DiagramType — classification runs before the Brief exists.
func Classify(req model.GenerateRequest) model.Tier {
	if len(req.Images) > 0 {
		return model.TierVision
	}
	diagramHint := model.Archetype(strings.ToLower(strings.TrimSpace(req.DiagramHint)))
	if fastHintedTypes[diagramHint] {
		if req.EntityCountHint > 8 {
			return model.TierStandard
		}
		return model.TierFast
	}
	if premiumHintedTypes[diagramHint] {
		return model.TierPremium
	}
	hits := lexiconHits(req.Prompt)
	switch {
	case hits >= 2:
		return model.TierPremium
	case hits == 1:
		return model.TierStandard
	default:
		return model.TierFast
	}
}

func lexiconHits(prompt string) int {
	folded := strings.ToLower(prompt)
	n := 0
	for _, term := range lexicon {
		if strings.Contains(folded, term) {
			n++
		}
	}
	return n
}
