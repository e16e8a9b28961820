package archetype

import (
	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

// solveTechStack implements spec.md §4.3's tech-stack: n rows of one
// column, full content width, entities in Brief order from top
// (application layer) to bottom (infrastructure).
func solveTechStack(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()
	entities := b.Entities
	n := len(entities)
	if n == 0 {
		n = 1
	}

	rowH := units.ClampBlockHeight((ch - float64(n-1)*units.GutterVerticalIn) / float64(n))

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)

	positions := make(map[string]model.Rect, n)
	for i, e := range entities {
		rect := model.Rect{X: cx, Y: cy + float64(i)*(rowH+units.GutterVerticalIn), Width: cw, Height: rowH}
		elements = append(elements, entityBlock(e, rect, b.Theme, i+1))
		positions[e.ID] = rect
	}

	connectors := stackConnectors(b, positions, textColorFor(b.Theme.Background))

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

// stackConnectors anchors a vertical connector for each Brief connection
// whose endpoints both resolved to a placed row.
func stackConnectors(b model.Brief, positions map[string]model.Rect, color string) []model.PositionedConnector {
	var out []model.PositionedConnector
	for i, c := range b.Connections {
		from, ok1 := positions[c.FromID]
		to, ok2 := positions[c.ToID]
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, verticalConnector(connectorID(i), from, to, c, color))
	}
	return out
}
