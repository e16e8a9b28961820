package archetype

import (
	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

const processFlowRowBreak = 6

// solveProcessFlow implements spec.md §4.3's process-flow: a single
// left-to-right row if there are at most six steps, otherwise two rows
// with the bottom row read right-to-left and a U-turn connector joining
// them.
func solveProcessFlow(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()
	entities := b.Entities
	n := len(entities)
	if n == 0 {
		n = 1
	}

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)

	positions := make(map[string]model.Rect, n)
	order := make([]string, n)

	if n <= processFlowRowBreak {
		colW, h, _ := blockSize(longestLabel(entities), n, cw)
		y := cy + (ch-h)/2
		for i, e := range entities {
			rect := model.Rect{X: cx + float64(i)*(colW+units.GutterHorizontalIn), Y: y, Width: colW, Height: h}
			elements = append(elements, entityBlock(e, rect, b.Theme, i+1))
			positions[e.ID] = rect
			order[i] = e.ID
		}
	} else {
		row1n := (n + 1) / 2
		row2n := n - row1n
		colW, h, _ := blockSize(longestLabel(entities), row1n, cw)
		rowH := units.ClampBlockHeight(ch/2 - units.GutterVerticalIn)
		if h > rowH {
			h = rowH
		}
		y1 := cy + (ch/2-h)/2
		y2 := cy + ch/2 + (ch/2-h)/2

		for i := 0; i < row1n; i++ {
			e := entities[i]
			rect := model.Rect{X: cx + float64(i)*(colW+units.GutterHorizontalIn), Y: y1, Width: colW, Height: h}
			elements = append(elements, entityBlock(e, rect, b.Theme, i+1))
			positions[e.ID] = rect
			order[i] = e.ID
		}
		// Bottom row is read right-to-left: entity row1n sits under the
		// rightmost column, continuing reading order from the end of row 1.
		for i := 0; i < row2n; i++ {
			e := entities[row1n+i]
			col := row2n - 1 - i
			rect := model.Rect{X: cx + float64(col)*(colW+units.GutterHorizontalIn), Y: y2, Width: colW, Height: h}
			elements = append(elements, entityBlock(e, rect, b.Theme, row1n+i+1))
			positions[e.ID] = rect
			order[row1n+i] = e.ID
		}
	}

	connectors := make([]model.PositionedConnector, 0, n-1)
	txtColor := textColorFor(b.Theme.Background)
	for i := 0; i < n-1; i++ {
		fromID, toID := order[i], order[i+1]
		from, to := positions[fromID], positions[toID]
		c := model.Connection{FromID: fromID, ToID: toID, Style: model.ConnectionArrow}
		if sameRow(from, to) {
			connectors = append(connectors, horizontalConnector(connectorID(i), from, to, c, txtColor))
		} else {
			connectors = append(connectors, verticalConnector(connectorID(i), from, to, c, txtColor))
		}
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

func longestLabel(entities []model.Entity) string {
	longest := ""
	for _, e := range entities {
		if len(e.Label) > len(longest) {
			longest = e.Label
		}
	}
	return longest
}

func sameRow(a, b model.Rect) bool {
	return a.Y == b.Y
}

// verticalConnector anchors a connector between the bottom edge of "from"
// and the top edge of "to", inset outward by the configured clearance, at
// the horizontal midpoint of the pair — used for the process-flow U-turn.
func verticalConnector(id string, from, to model.Rect, c model.Connection, color string) model.PositionedConnector {
	midX := (from.X + from.Width/2 + to.X + to.Width/2) / 2
	return model.PositionedConnector{
		ID:     id,
		Start:  model.Point{X: midX, Y: from.Bottom() + units.ConnectorEndpointInsetIn},
		End:    model.Point{X: midX, Y: to.Y - units.ConnectorEndpointInsetIn},
		FromID: c.FromID,
		ToID:   c.ToID,
		Style:  orDefaultStyle(c.Style),
		Color:  color,
	}
}
