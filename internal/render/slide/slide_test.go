package slide

import (
	"archive/zip"
	"bytes"
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
			{ID: "a", Kind: model.ElementBlock, Rect: model.Rect{X: 1, Y: 2, Width: 2, Height: 1}, CornerRadius: 0.1,
				Fill: "4472c4", Text: &model.MeasuredText{Original: "A", Lines: []string{"A"}, FontSize: 18, Height: 0.3, Fits: true}, Opacity: 1, ZOrder: 1},
			{ID: "b", Kind: model.ElementBlock, Rect: model.Rect{X: 4, Y: 2, Width: 2, Height: 1},
				Fill: "4472c4", Text: &model.MeasuredText{Original: "B", Lines: []string{"B"}, FontSize: 18, Height: 0.3, Fits: true}, Opacity: 1, ZOrder: 1},
		},
		Connectors: []model.PositionedConnector{
			{ID: "c0", Start: model.Point{X: 3.1, Y: 2.5}, End: model.Point{X: 3.9, Y: 2.5}, FromID: "a", ToID: "b", Style: model.ConnectionArrow, Color: "000000"},
		},
	}
}

func TestRenderProducesOpenableZip(t *testing.T) {
	out, err := Render(sampleLayout())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	r, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("pptx output isn't a valid zip: %v", err)
	}

	want := map[string]bool{
		"[Content_Types].xml":          false,
		"ppt/presentation.xml":         false,
		"ppt/slides/slide1.xml":        false,
		"ppt/slideMasters/slideMaster1.xml": false,
		"ppt/theme/theme1.xml":         false,
	}
	for _, f := range r.File {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected part %q in the archive", name)
		}
	}
}

func TestSlideXMLContainsShapesInZOrder(t *testing.T) {
	out := slideXML(sampleLayout())
	aIdx := strings.Index(out, `name="a"`)
	titleIdx := strings.Index(out, `name="title"`)
	if aIdx == -1 || titleIdx == -1 {
		t.Fatal("expected both shapes present")
	}
	if aIdx > titleIdx {
		t.Error("expected z-order 1 block written before z-order 10 title")
	}
}

func TestSlideXMLNeverLeavesTextFrameEmpty(t *testing.T) {
	layout := model.PositionedLayout{
		SlideWidth: 13.333, SlideHeight: 7.5, Background: "ffffff",
		Elements: []model.PositionedElement{
			{ID: "empty", Kind: model.ElementBlock, Rect: model.Rect{X: 1, Y: 1, Width: 2, Height: 1}, Fill: "ffffff"},
		},
	}
	out := slideXML(layout)
	if !strings.Contains(out, "<a:t> </a:t>") {
		t.Error("expected a single-space run when no MeasuredText is present")
	}
}

func TestCornerAdjustmentClampsToSpecMax(t *testing.T) {
	e := model.PositionedElement{CornerRadius: 10, Rect: model.Rect{Height: 1}}
	if got := cornerAdjustment(e); got != 15000 {
		t.Errorf("cornerAdjustment() = %d, want 15000 (clamped to 0.15)", got)
	}
}

func TestConnectorShapeUsesTriangleTailByDefault(t *testing.T) {
	out := slideXML(sampleLayout())
	if !strings.Contains(out, `<a:tailEnd type="triangle"/>`) {
		t.Error("expected a default arrow tail marker on the connector")
	}
}
