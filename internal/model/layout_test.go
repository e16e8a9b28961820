package model

import "testing"

func TestPositionedLayoutValidateOK(t *testing.T) {
	l := PositionedLayout{
		SlideWidth:  13.333,
		SlideHeight: 7.5,
		Elements: []PositionedElement{
			{ID: "e1", Kind: ElementBlock, Rect: Rect{X: 1, Y: 1, Width: 2, Height: 1}},
			{ID: "e2", Kind: ElementBlock, Rect: Rect{X: 4, Y: 1, Width: 2, Height: 1}},
		},
		Connectors: []PositionedConnector{
			{ID: "c1", FromID: "e1", ToID: "e2", Start: Point{X: 3.2, Y: 1.5}, End: Point{X: 3.8, Y: 1.5}},
		},
	}
	if err := l.Validate(0.1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPositionedLayoutValidateOutOfBounds(t *testing.T) {
	l := PositionedLayout{
		SlideWidth:  13.333,
		SlideHeight: 7.5,
		Elements: []PositionedElement{
			{ID: "e1", Kind: ElementBlock, Rect: Rect{X: 12, Y: 1, Width: 3, Height: 1}},
		},
	}
	if err := l.Validate(0.1); err == nil {
		t.Fatal("expected error for element exceeding canvas")
	}
}

func TestPositionedLayoutValidateOverlap(t *testing.T) {
	l := PositionedLayout{
		SlideWidth:  13.333,
		SlideHeight: 7.5,
		Elements: []PositionedElement{
			{ID: "e1", Kind: ElementBlock, Rect: Rect{X: 1, Y: 1, Width: 2, Height: 1}},
			{ID: "e2", Kind: ElementBlock, Rect: Rect{X: 2, Y: 1, Width: 2, Height: 1}},
		},
	}
	if err := l.Validate(0.1); err == nil {
		t.Fatal("expected error for overlapping blocks")
	}
}

func TestPositionedLayoutValidateBandBehindBlocksOK(t *testing.T) {
	l := PositionedLayout{
		SlideWidth:  13.333,
		SlideHeight: 7.5,
		Elements: []PositionedElement{
			{ID: "band", Kind: ElementBand, Rect: Rect{X: 0, Y: 0, Width: 13, Height: 1}, ZOrder: -1},
			{ID: "block", Kind: ElementBlock, Rect: Rect{X: 1, Y: 0.2, Width: 2, Height: 0.6}, ZOrder: 0},
		},
	}
	if err := l.Validate(0.1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPositionedLayoutValidateConnectorTooClose(t *testing.T) {
	l := PositionedLayout{
		SlideWidth:  13.333,
		SlideHeight: 7.5,
		Elements: []PositionedElement{
			{ID: "e1", Kind: ElementBlock, Rect: Rect{X: 1, Y: 1, Width: 2, Height: 1}},
			{ID: "e2", Kind: ElementBlock, Rect: Rect{X: 4, Y: 1, Width: 2, Height: 1}},
		},
		Connectors: []PositionedConnector{
			{ID: "c1", FromID: "e1", ToID: "e2", Start: Point{X: 3.0, Y: 1.5}, End: Point{X: 3.9, Y: 1.5}},
		},
	}
	if err := l.Validate(0.1); err == nil {
		t.Fatal("expected error for connector endpoint too close to its shape")
	}
}
