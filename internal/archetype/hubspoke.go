package archetype

import (
	"math"
	"strconv"

	"infographica/internal/ierrors"
	"infographica/internal/model"
	"infographica/internal/units"
)

const hubSpokeRadiusFraction = 0.35

// solveHubSpoke implements spec.md §4.3's hub-spoke: the first entity is
// the hub, centered in the content area; the rest are satellites evenly
// spaced on a circle around it, starting at the top (270°) and proceeding
// clockwise.
func solveHubSpoke(b model.Brief, warnings *ierrors.Warnings) model.PositionedLayout {
	cx, cy, cw, ch := units.ContentBounds()
	centerX, centerY := cx+cw/2, cy+ch/2
	radius := hubSpokeRadiusFraction * math.Min(cw, ch)

	var elements []model.PositionedElement
	elements = append(elements, titleSubtitleElements(b)...)

	if len(b.Entities) == 0 {
		return model.PositionedLayout{
			SlideWidth: units.SlideWidthIn, SlideHeight: units.SlideHeightIn,
			Background: orDefault(b.Theme.Background, "ffffff"), Title: b.Title, Subtitle: b.Subtitle,
			Elements: elements,
		}
	}

	hub := b.Entities[0]
	satellites := b.Entities[1:]

	hubW, hubH, _ := blockSize(hub.Label, 1, cw*0.3)
	hubRect := model.Rect{X: centerX - hubW/2, Y: centerY - hubH/2, Width: hubW, Height: hubH}
	elements = append(elements, entityBlock(hub, hubRect, b.Theme, 5))

	satW, satH, _ := blockSize(longestLabel(satellites), maxInt(len(satellites), 4), cw*0.5)
	positions := map[string]model.Rect{hub.ID: hubRect}
	n := len(satellites)
	for k, e := range satellites {
		angle := (270.0 + float64(k)*360.0/float64(n)) * math.Pi / 180.0
		px := centerX + radius*math.Cos(angle)
		py := centerY + radius*math.Sin(angle)
		rect := model.Rect{X: px - satW/2, Y: py - satH/2, Width: satW, Height: satH}
		elements = append(elements, entityBlock(e, rect, b.Theme, k+1))
		positions[e.ID] = rect
	}

	var connectors []model.PositionedConnector
	txtColor := textColorFor(b.Theme.Background)
	for k, e := range satellites {
		satRect := positions[e.ID]
		c := model.Connection{FromID: hub.ID, ToID: e.ID, Style: model.ConnectionArrow}
		connectors = append(connectors, edgeToEdgeConnector("hub-"+strconv.Itoa(k), hubRect, satRect, c, txtColor))
	}
	for i, c := range b.Connections {
		if c.FromID == hub.ID || c.ToID == hub.ID {
			continue // already connected above
		}
		from, ok1 := positions[c.FromID]
		to, ok2 := positions[c.ToID]
		if !ok1 || !ok2 {
			continue
		}
		connectors = append(connectors, edgeToEdgeConnector("extra-"+strconv.Itoa(i), from, to, c, txtColor))
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// edgeToEdgeConnector anchors a connector between the boundaries of two
// rects along the straight line joining their centers, inset outward by
// the configured clearance on each end.
func edgeToEdgeConnector(id string, from, to model.Rect, c model.Connection, color string) model.PositionedConnector {
	fromCenter := model.Point{X: from.X + from.Width/2, Y: from.Y + from.Height/2}
	toCenter := model.Point{X: to.X + to.Width/2, Y: to.Y + to.Height/2}
	dx, dy := toCenter.X-fromCenter.X, toCenter.Y-fromCenter.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		dist = 1
	}
	ux, uy := dx/dist, dy/dist

	start := rectBoundaryPoint(from, ux, uy)
	start = model.Point{X: start.X + ux*units.ConnectorEndpointInsetIn, Y: start.Y + uy*units.ConnectorEndpointInsetIn}
	end := rectBoundaryPoint(to, -ux, -uy)
	end = model.Point{X: end.X - ux*units.ConnectorEndpointInsetIn, Y: end.Y - uy*units.ConnectorEndpointInsetIn}

	return model.PositionedConnector{
		ID: id, Start: start, End: end,
		FromID: c.FromID, ToID: c.ToID, Style: orDefaultStyle(c.Style), Color: color,
	}
}

// rectBoundaryPoint returns the point on rect's boundary reached by
// walking from its center in direction (dirX, dirY).
func rectBoundaryPoint(rect model.Rect, dirX, dirY float64) model.Point {
	center := model.Point{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2}
	hw, hh := rect.Width/2, rect.Height/2
	var t float64 = math.MaxFloat64
	if dirX != 0 {
		t = math.Min(t, hw/math.Abs(dirX))
	}
	if dirY != 0 {
		t = math.Min(t, hh/math.Abs(dirY))
	}
	if t == math.MaxFloat64 {
		t = 0
	}
	return model.Point{X: center.X + dirX*t, Y: center.Y + dirY*t}
}
