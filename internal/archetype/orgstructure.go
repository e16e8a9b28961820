package archetype

import (
	"strconv"

	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

// orgRowGutterIn separates hierarchy rows by more than twice the connector
// endpoint inset, so the elbow connector's midpoint segment always clears
// both the parent and child shapes.
const orgRowGutterIn = 0.3

// solveOrgStructure implements spec.md §4.3's org-structure: one row per
// hierarchy level (derived from Brief connections, from-id as parent),
// children evenly spaced beneath their parent, with elbowed connectors.
func solveOrgStructure(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()

	levels := buildLevels(b)
	numLevels := len(levels)
	if numLevels == 0 {
		numLevels = 1
		levels = [][]model.Entity{b.Entities}
	}
	rowH := units.ClampBlockHeight((ch - float64(numLevels-1)*orgRowGutterIn) / float64(numLevels))

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)
	positions := make(map[string]model.Rect)

	for li, row := range levels {
		n := len(row)
		if n == 0 {
			continue
		}
		colW := (cw - float64(n-1)*units.GutterHorizontalIn) / float64(n)
		y := cy + float64(li)*(rowH+orgRowGutterIn)
		for i, e := range row {
			rect := model.Rect{
				X: cx + float64(i)*(colW+units.GutterHorizontalIn), Y: y,
				Width: units.ClampBlockWidth(colW), Height: rowH,
			}
			elements = append(elements, entityBlock(e, rect, b.Theme, li+1))
			positions[e.ID] = rect
		}
	}

	var connectors []model.PositionedConnector
	txtColor := textColorFor(b.Theme.Background)
	for i, c := range b.Connections {
		parent, ok1 := positions[c.FromID]
		child, ok2 := positions[c.ToID]
		if !ok1 || !ok2 {
			continue
		}
		connectors = append(connectors, elbowConnector(strconv.Itoa(i), parent, child, c, txtColor)...)
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

// buildLevels derives a hierarchy from the Brief's connections: roots are
// entities never named as a to-id, then breadth-first descent by from-id.
func buildLevels(b model.Brief) [][]model.Entity {
	if len(b.Connections) == 0 {
		return nil
	}
	byID := entityByID(b)
	children := make(map[string][]string)
	hasParent := make(map[string]bool)
	for _, c := range b.Connections {
		children[c.FromID] = append(children[c.FromID], c.ToID)
		hasParent[c.ToID] = true
	}

	var roots []string
	for _, e := range b.Entities {
		if !hasParent[e.ID] {
			roots = append(roots, e.ID)
		}
	}
	if len(roots) == 0 {
		return nil
	}

	var levels [][]model.Entity
	frontier := roots
	visited := make(map[string]bool)
	for len(frontier) > 0 {
		var row []model.Entity
		var next []string
		for _, id := range frontier {
			if visited[id] {
				continue
			}
			visited[id] = true
			if e, ok := byID[id]; ok {
				row = append(row, e)
			}
			next = append(next, children[id]...)
		}
		if len(row) > 0 {
			levels = append(levels, row)
		}
		frontier = next
	}
	return levels
}

// elbowConnector routes a right-angle connector from parent down to the
// midpoint row between the two levels, across, then down into child,
// per spec.md §4.3's org-structure placement rule.
func elbowConnector(idPrefix string, parent, child model.Rect, c model.Connection, color string) []model.PositionedConnector {
	midY := (parent.Bottom() + child.Y) / 2
	parentX := parent.X + parent.Width/2
	childX := child.X + child.Width/2
	style := orDefaultStyle(c.Style)

	down := model.PositionedConnector{
		ID: idPrefix + "-down", Start: model.Point{X: parentX, Y: parent.Bottom() + units.ConnectorEndpointInsetIn},
		End: model.Point{X: parentX, Y: midY}, FromID: c.FromID, ToID: c.ToID, Style: style, Color: color,
	}
	across := model.PositionedConnector{
		ID: idPrefix + "-across", Start: model.Point{X: parentX, Y: midY},
		End: model.Point{X: childX, Y: midY}, FromID: c.FromID, ToID: c.ToID, Style: style, Color: color,
	}
	up := model.PositionedConnector{
		ID: idPrefix + "-up", Start: model.Point{X: childX, Y: midY},
		End: model.Point{X: childX, Y: child.Y - units.ConnectorEndpointInsetIn}, FromID: c.FromID, ToID: c.ToID, Style: style, Color: color,
	}
	return []model.PositionedConnector{down, across, up}
}
