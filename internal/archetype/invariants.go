package archetype

import (
	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

// scaleSteps are the uniform-scaling factors tried, in order, when a
// solver's first pass leaves elements outside the canvas or overlapping
// (spec.md §4.3: "must scale block widths down uniformly until invariants
// hold, never permit overlap").
var scaleSteps = []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5}

// enforceInvariants re-checks the global invariants and, if they fail,
// retries with progressively smaller uniform scaling centered on the
// content area before giving up and returning the smallest attempt.
func enforceInvariants(layout model.PositionedLayout, warnings *ierrors.Warnings) model.PositionedLayout {
	if layout.Validate(units.ConnectorEndpointInsetIn) == nil {
		return layout
	}

	cx, cy, _, _ := units.ContentBounds()
	original := layout
	for _, scale := range scaleSteps[1:] {
		scaled := scaleLayout(original, scale, cx, cy)
		if scaled.Validate(units.ConnectorEndpointInsetIn) == nil {
			warnings.Add("archetype", "uniform scaling applied to satisfy layout invariants")
			return scaled
		}
	}
	warnings.Add("archetype", "layout invariants could not be fully satisfied after uniform scaling")
	return scaleLayout(original, scaleSteps[len(scaleSteps)-1], cx, cy)
}

// scaleLayout shrinks every element and connector toward the content
// origin (cx, cy) by factor, keeping text measurements attached so
// renderers still have something to draw (they'll just have extra
// whitespace in the shrunk shapes).
func scaleLayout(l model.PositionedLayout, factor float64, cx, cy float64) model.PositionedLayout {
	out := l
	out.Elements = make([]model.PositionedElement, len(l.Elements))
	for i, e := range l.Elements {
		e.Rect = scaleRect(e.Rect, factor, cx, cy)
		out.Elements[i] = e
	}
	out.Connectors = make([]model.PositionedConnector, len(l.Connectors))
	for i, c := range l.Connectors {
		c.Start = scalePoint(c.Start, factor, cx, cy)
		c.End = scalePoint(c.End, factor, cx, cy)
		out.Connectors[i] = c
	}
	return out
}

func scaleRect(r model.Rect, factor, cx, cy float64) model.Rect {
	return model.Rect{
		X:      cx + (r.X-cx)*factor,
		Y:      cy + (r.Y-cy)*factor,
		Width:  r.Width * factor,
		Height: r.Height * factor,
	}
}

func scalePoint(p model.Point, factor, cx, cy float64) model.Point {
	return model.Point{
		X: cx + (p.X-cx)*factor,
		Y: cy + (p.Y-cy)*factor,
	}
}
