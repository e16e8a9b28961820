// Package archetype implements the layout solvers of spec.md §4.3: one
// pure Brief → PositionedLayout function per diagram family, sharing a
// text-measurement pre-step and a global invariant-enforcement pass.
package archetype

import (
	"strings"

	"infographica/internal/ierrors"
	"infographica/internal/model"
)

// Solver produces a PositionedLayout from a Brief. Solvers never fail;
// degraded results travel out via the warnings accumulator.
type Solver func(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout

var registry = map[model.Archetype]Solver{
	model.ArchetypeMarketecture: solveMarketecture,
	model.ArchetypeProcessFlow:  solveProcessFlow,
	model.ArchetypeTechStack:    solveTechStack,
	model.ArchetypeComparison:   solveComparison,
	model.ArchetypeTimeline:    solveTimeline,
	model.ArchetypeOrgStructure: solveOrgStructure,
	model.ArchetypeValueChain:   solveValueChain,
	model.ArchetypeHubSpoke:     solveHubSpoke,
}

// Resolve returns the solver registered for b's diagram type, that type,
// and true; the bool is false when DiagramType names no registered solver
// and auto-detection is needed.
func Resolve(b model.Brief) (Solver, model.Archetype, bool) {
	if s, ok := registry[b.DiagramType]; ok {
		return s, b.DiagramType, true
	}
	return nil, "", false
}

// Solve dispatches b to its archetype's solver, auto-detecting by
// layout-hint then a keyword pass over the title/prompt-derived text if
// DiagramType itself doesn't resolve (spec.md §4.3).
func Solve(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	solver, _, ok := Resolve(b)
	if !ok {
		solver = detect(b)
	}
	layout := solver(b, warnings)
	return enforceInvariants(layout, warnings)
}

// detect chooses a solver when DiagramType doesn't name a registered
// archetype: first by layout-hint, then by a keyword scan over the title
// and entity labels.
func detect(b model.Brief) Solver {
	hint := model.Archetype(strings.ToLower(strings.TrimSpace(b.LayoutHint)))
	if s, ok := registry[hint]; ok {
		return s
	}

	text := strings.ToLower(b.Title + " " + labelsJoined(b))
	for _, kw := range keywordOrder {
		if strings.Contains(text, kw.word) {
			return registry[kw.archetype]
		}
	}
	return solveMarketecture
}

func labelsJoined(b model.Brief) string {
	var sb strings.Builder
	for _, e := range b.Entities {
		sb.WriteString(e.Label)
		sb.WriteString(" ")
	}
	return sb.String()
}

var keywordOrder = []struct {
	word      string
	archetype model.Archetype
}{
	{"timeline", model.ArchetypeTimeline},
	{"roadmap", model.ArchetypeTimeline},
	{"process", model.ArchetypeProcessFlow},
	{"workflow", model.ArchetypeProcessFlow},
	{"step", model.ArchetypeProcessFlow},
	{"stack", model.ArchetypeTechStack},
	{"layer", model.ArchetypeTechStack},
	{"versus", model.ArchetypeComparison},
	{" vs ", model.ArchetypeComparison},
	{"compare", model.ArchetypeComparison},
	{"org chart", model.ArchetypeOrgStructure},
	{"hierarchy", model.ArchetypeOrgStructure},
	{"reporting", model.ArchetypeOrgStructure},
	{"value chain", model.ArchetypeValueChain},
	{"hub", model.ArchetypeHubSpoke},
	{"spoke", model.ArchetypeHubSpoke},
	{"integration", model.ArchetypeHubSpoke},
}
