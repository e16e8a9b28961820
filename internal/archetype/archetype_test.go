package archetype

import (
	"testing"

	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

func testTheme() model.Theme {
	return model.Theme{Primary: "4472c4", Secondary: "a5a5a5", Accent: "ed7d31", Background: "ffffff", Text: "000000"}
}

func entitiesNamed(labels ...string) []model.Entity {
	out := make([]model.Entity, len(labels))
	for i, l := range labels {
		out[i] = model.Entity{ID: l, Label: l}
	}
	return out
}

func briefFor(archetype model.Archetype, labels ...string) model.Brief {
	return model.Brief{
		SchemaVersion: model.SchemaVersion,
		DiagramType:   archetype,
		Title:         "Test Diagram",
		Entities:      entitiesNamed(labels...),
		Theme:         testTheme(),
	}
}

func assertValid(t *testing.T, layout model.PositionedLayout) {
	t.Helper()
	if err := layout.Validate(0.1); err != nil {
		t.Fatalf("layout invariants violated: %v", err)
	}
}

func TestSolveEachArchetypeProducesValidLayout(t *testing.T) {
	labels := []string{"Alpha", "Beta", "Gamma", "Delta"}
	for _, archetype := range model.ValidArchetypes {
		b := briefFor(archetype, labels...)
		b.Connections = []model.Connection{
			{FromID: "Alpha", ToID: "Beta"},
			{FromID: "Beta", ToID: "Gamma"},
		}
		var warnings ierrors.Warnings
		layout := Solve(b, &warnings)
		if layout.Title != b.Title {
			t.Errorf("%s: title not carried through", archetype)
		}
		assertValid(t, layout)
	}
}

func TestSolveProcessFlowWrapsPastSixSteps(t *testing.T) {
	b := briefFor(model.ArchetypeProcessFlow, "S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8")
	var warnings ierrors.Warnings
	layout := Solve(b, &warnings)
	assertValid(t, layout)

	rows := map[float64]int{}
	for _, e := range layout.Elements {
		if e.Kind == model.ElementBlock {
			rows[e.Rect.Y]++
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows for 8 steps, got %d distinct row Y positions", len(rows))
	}
}

func TestSolveHubSpokePlacesHubAtCenter(t *testing.T) {
	b := briefFor(model.ArchetypeHubSpoke, "Hub", "A", "B", "C", "D")
	var warnings ierrors.Warnings
	layout := Solve(b, &warnings)
	assertValid(t, layout)

	var hub *model.PositionedElement
	for i := range layout.Elements {
		if layout.Elements[i].ID == "Hub" {
			hub = &layout.Elements[i]
		}
	}
	if hub == nil {
		t.Fatal("hub element not found")
	}
	if len(layout.Connectors) != 4 {
		t.Fatalf("expected 4 hub connectors, got %d", len(layout.Connectors))
	}
}

func TestSolveComparisonUsesLayersAsCriteria(t *testing.T) {
	b := briefFor(model.ArchetypeComparison, "ProductA", "ProductB")
	b.Layers = []model.Layer{
		{ID: "price", Label: "Price", Members: []string{"ProductA"}},
		{ID: "support", Label: "Support", Members: []string{"ProductA", "ProductB"}},
	}
	var warnings ierrors.Warnings
	layout := Solve(b, &warnings)
	assertValid(t, layout)

	found := false
	for _, e := range layout.Elements {
		if e.ID == "cell-0-ProductA" {
			found = true
		}
	}
	if !found {
		t.Error("expected a cell element for ProductA under the first criterion")
	}
}

func TestDetectFallsBackToKeywordScan(t *testing.T) {
	b := model.Brief{
		SchemaVersion: model.SchemaVersion,
		DiagramType:   "",
		Title:         "Our product roadmap for next year",
		Entities:      entitiesNamed("Q1", "Q2", "Q3"),
		Theme:         testTheme(),
	}
	solver := detect(b)
	if solver == nil {
		t.Fatal("detect returned nil solver")
	}
	var warnings ierrors.Warnings
	layout := solver(b, &warnings)
	assertValid(t, layout)
}

func TestDetectPrefersLayoutHintOverKeywords(t *testing.T) {
	b := model.Brief{
		SchemaVersion: model.SchemaVersion,
		DiagramType:   "",
		Title:         "A process for comparing tools",
		LayoutHint:    string(model.ArchetypeTechStack),
		Entities:      entitiesNamed("L1", "L2"),
		Theme:         testTheme(),
	}
	solver := detect(b)
	var warnings ierrors.Warnings
	layout := solver(b, &warnings)
	// tech-stack rows span the full content width; process-flow/comparison do not.
	blockCount := 0
	for _, e := range layout.Elements {
		if e.Kind == model.ElementBlock {
			blockCount++
		}
	}
	if blockCount != 2 {
		t.Fatalf("expected 2 block elements from tech-stack hint, got %d", blockCount)
	}
	_, _, contentW, _ := units.ContentBounds()
	for _, e := range layout.Elements {
		if e.Kind == model.ElementBlock && e.Rect.Width != contentW {
			t.Fatalf("expected tech-stack block %q to span the content width %v, got %v", e.ID, contentW, e.Rect.Width)
		}
	}
}

func TestFitLabelIsMemoized(t *testing.T) {
	a := fitLabel("Repeatable Label", 2.0)
	b := fitLabel("Repeatable Label", 2.0)
	if a.FontSize != b.FontSize || a.Height != b.Height {
		t.Errorf("expected identical measurement from cache, got %+v vs %+v", a, b)
	}
}

func TestEnforceInvariantsScalesDownOverlappingLayout(t *testing.T) {
	overlapping := model.PositionedLayout{
		SlideWidth:  13.333,
		SlideHeight: 7.5,
		Elements: []model.PositionedElement{
			{ID: "a", Kind: model.ElementBlock, Rect: model.Rect{X: 1, Y: 1, Width: 3, Height: 1}, ZOrder: 1},
			{ID: "b", Kind: model.ElementBlock, Rect: model.Rect{X: 2, Y: 1, Width: 3, Height: 1}, ZOrder: 1},
		},
	}
	var warnings ierrors.Warnings
	fixed := enforceInvariants(overlapping, &warnings)
	if err := fixed.Validate(0.1); err != nil {
		t.Fatalf("expected scaling to resolve overlap, got: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning recording the scaling fallback")
	}
}

func TestSolveWithNoEntitiesDoesNotPanic(t *testing.T) {
	for _, archetype := range model.ValidArchetypes {
		b := model.Brief{
			SchemaVersion: model.SchemaVersion,
			DiagramType:   archetype,
			Title:         "Empty",
			Theme:         testTheme(),
		}
		var warnings ierrors.Warnings
		_ = Solve(b, &warnings)
	}
}
