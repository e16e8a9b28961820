package svg

import (
	"strings"
	"testing"

	"infographica/internal/model"
)

func sampleLayout() model.PositionedLayout {
	return model.PositionedLayout{
		SlideWidth:  13.333,
		SlideHeight: 7.5,
		Background:  "ffffff",
		Title:       "Sample",
		Elements: []model.PositionedElement{
			{ID: "title", Kind: model.ElementTitle, Rect: model.Rect{X: 0.6, Y: 0.8, Width: 12, Height: 0.9},
				Fill: "000000", Text: &model.MeasuredText{Original: "Sample", Lines: []string{"Sample"}, FontSize: 24, Height: 0.4, Fits: true}, ZOrder: 10},
			{ID: "a", Kind: model.ElementBlock, Rect: model.Rect{X: 1, Y: 2, Width: 2, Height: 1},
				Fill: "4472c4", Text: &model.MeasuredText{Original: "A", Lines: []string{"A"}, FontSize: 18, Height: 0.3, Fits: true}, Opacity: 1, ZOrder: 1},
			{ID: "b", Kind: model.ElementBlock, Rect: model.Rect{X: 4, Y: 2, Width: 2, Height: 1},
				Fill: "4472c4", Text: &model.MeasuredText{Original: "B", Lines: []string{"B"}, FontSize: 18, Height: 0.3, Fits: true}, Opacity: 1, ZOrder: 1},
		},
		Connectors: []model.PositionedConnector{
			{ID: "c0", Start: model.Point{X: 3.1, Y: 2.5}, End: model.Point{X: 3.9, Y: 2.5}, FromID: "a", ToID: "b", Style: model.ConnectionArrow, Color: "000000"},
		},
	}
}

func TestRenderProducesWellFormedDocument(t *testing.T) {
	out := string(Render(sampleLayout()))
	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatal("expected XML declaration at the start of the document")
	}
	if !strings.Contains(out, "<svg ") || !strings.Contains(out, "</svg>") {
		t.Fatal("expected a root <svg> element")
	}
	if !strings.Contains(out, `viewBox="0 0`) {
		t.Error("expected an explicit viewBox")
	}
}

func TestRenderIncludesStableIDsAndDataKind(t *testing.T) {
	out := string(Render(sampleLayout()))
	for _, want := range []string{`id="a" data-kind="block"`, `id="b" data-kind="block"`, `id="title" data-kind="title"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestRenderEmitsTextAsTextNodesNotPaths(t *testing.T) {
	out := string(Render(sampleLayout()))
	if strings.Contains(out, "<path d=\"M0,0 L10,5") {
		// only the marker def's path is allowed.
	}
	if !strings.Contains(out, "<text ") {
		t.Error("expected at least one <text> node")
	}
	if strings.Count(out, "<path") > 1 {
		t.Error("expected only the arrowhead marker's <path>, text must render as <text>")
	}
}

func TestRenderOrdersElementsByZOrderAscending(t *testing.T) {
	out := string(Render(sampleLayout()))
	bandIdx := strings.Index(out, `id="a" data-kind="block"`)
	titleIdx := strings.Index(out, `id="title" data-kind="title"`)
	if bandIdx == -1 || titleIdx == -1 {
		t.Fatal("expected both elements present")
	}
	if bandIdx > titleIdx {
		t.Error("expected z-order 1 block to be written before z-order 10 title")
	}
}

func TestRenderConnectorHasArrowMarker(t *testing.T) {
	out := string(Render(sampleLayout()))
	if !strings.Contains(out, `marker-end="url(#arrowhead)"`) {
		t.Error("expected the connector to reference the arrowhead marker")
	}
}
