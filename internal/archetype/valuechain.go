package archetype

import (
	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

// solveValueChain implements spec.md §4.3's value-chain: a horizontal
// chain of stage blocks in one row. The spec's "chevron tip overlap"
// visual is a rendering-level detail (a pointed chevron shape, not a
// rectangle) this model has no primitive for, so stages are placed
// edge-to-edge instead of truly overlapping — the global no-overlap
// invariant takes precedence over the cosmetic tip.
func solveValueChain(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()
	entities := b.Entities
	n := len(entities)
	if n == 0 {
		n = 1
	}

	const stageGapIn = 0.25 // > 2x the connector endpoint inset, so both anchors clear their shapes
	colW := (cw - float64(n-1)*stageGapIn) / float64(n)
	h := units.ClampBlockHeight(ch * 0.4)
	y := cy + (ch-h)/2

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)
	positions := make(map[string]model.Rect, n)
	for i, e := range entities {
		rect := model.Rect{X: cx + float64(i)*(colW+stageGapIn), Y: y, Width: colW, Height: h}
		elements = append(elements, entityBlock(e, rect, b.Theme, i+1))
		positions[e.ID] = rect
	}

	connectors := stackConnectors(b, positions, textColorFor(b.Theme.Background))
	for i := range connectors {
		connectors[i] = horizontalizeIfSameRow(connectors[i], positions)
	}

	return model.PositionedLayout{
		SlideWidth:  units.SlideWidthIn,
		SlideHeight: units.SlideHeightIn,
		Background:  orDefault(b.Theme.Background, "ffffff"),
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		Elements:    elements,
		Connectors:  connectors,
	}
}

// horizontalizeIfSameRow rebuilds a connector as a horizontal one when
// both endpoints share a row, since stackConnectors defaults to the
// straight vertical connector tech-stack uses.
func horizontalizeIfSameRow(c model.PositionedConnector, positions map[string]model.Rect) model.PositionedConnector {
	from, ok1 := positions[c.FromID]
	to, ok2 := positions[c.ToID]
	if !ok1 || !ok2 || !sameRow(from, to) {
		return c
	}
	midY := from.Y + from.Height/2
	c.Start = model.Point{X: from.Right() + units.ConnectorEndpointInsetIn, Y: midY}
	c.End = model.Point{X: to.X - units.ConnectorEndpointInsetIn, Y: midY}
	return c
}
