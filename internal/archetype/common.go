package archetype

import (
	"infographica/internal/model"
	"infographica/internal/units"
)

// titleSubtitleElements lays out the title band: title alone if no
// subtitle, otherwise title over a smaller subtitle line beneath it.
func titleSubtitleElements(b model.Brief) []model.PositionedElement {
	x := units.MarginLeftIn
	y := units.MarginTopIn
	w := units.SlideWidthIn - units.MarginLeftIn - units.MarginRightIn

	if b.Subtitle == "" {
		return []model.PositionedElement{{
			ID:   "title",
			Kind: model.ElementTitle,
			Rect: model.Rect{X: x, Y: y, Width: w, Height: units.TitleBandHeightIn},
			Text: textPtr(fitLabel(b.Title, w)),
			Fill: textColorFor(b.Theme.Background),
			ZOrder: 10,
		}}
	}
	titleH := units.TitleBandHeightIn * 0.6
	subH := units.TitleBandHeightIn - titleH
	return []model.PositionedElement{
		{
			ID:     "title",
			Kind:   model.ElementTitle,
			Rect:   model.Rect{X: x, Y: y, Width: w, Height: titleH},
			Text:   textPtr(fitLabel(b.Title, w)),
			Fill:   textColorFor(b.Theme.Background),
			ZOrder: 10,
		},
		{
			ID:     "subtitle",
			Kind:   model.ElementSubtitle,
			Rect:   model.Rect{X: x, Y: y + titleH, Width: w, Height: subH},
			Text:   textPtr(fitLabel(b.Subtitle, w)),
			Fill:   textColorFor(b.Theme.Background),
			ZOrder: 10,
		},
	}
}

func textPtr(mt model.MeasuredText) *model.MeasuredText { return &mt }

// entityBlock builds one block-kind element for entity e, placed at rect,
// filled and text-colored per the brief's theme/emphasis mapping.
func entityBlock(e model.Entity, rect model.Rect, theme model.Theme, zOrder int) model.PositionedElement {
	fill := fillFor(theme, e.Emphasis)
	label := e.Label
	if label == "" {
		label = " "
	}
	measured := fitLabel(label, rect.Width)
	return model.PositionedElement{
		ID:           e.ID,
		Kind:         model.ElementBlock,
		Rect:         rect,
		Fill:         fill,
		CornerRadius: theme.CornerRadius,
		Text:         textPtr(measured),
		Opacity:      1,
		ZOrder:       zOrder,
	}
}

// crossCutBand builds the full-width band element for a cross-cutting or
// top/bottom layer, sitting behind blocks (z = -1).
func crossCutBand(l model.Layer, rect model.Rect, theme model.Theme) model.PositionedElement {
	return model.PositionedElement{
		ID:      l.ID,
		Kind:    model.ElementBand,
		Rect:    rect,
		Fill:    orDefault(theme.Secondary, "d9d9d9"),
		Text:    textPtr(fitLabel(l.Label, rect.Width)),
		Opacity: 1,
		ZOrder:  -1,
		LayerID: l.ID,
	}
}

// entityByID indexes a Brief's entities for O(1) lookup during placement.
func entityByID(b model.Brief) map[string]model.Entity {
	m := make(map[string]model.Entity, len(b.Entities))
	for _, e := range b.Entities {
		m[e.ID] = e
	}
	return m
}

// horizontalConnector anchors a connector between the right edge of "from"
// and the left edge of "to", both inset outward by the configured
// clearance, at the vertical midpoint of the pair.
func horizontalConnector(id string, from, to model.Rect, c model.Connection, color string) model.PositionedConnector {
	midY := (from.Y + from.Height/2 + to.Y + to.Height/2) / 2
	return model.PositionedConnector{
		ID:     id,
		Start:  model.Point{X: from.Right() + units.ConnectorEndpointInsetIn, Y: midY},
		End:    model.Point{X: to.X - units.ConnectorEndpointInsetIn, Y: midY},
		FromID: c.FromID,
		ToID:   c.ToID,
		Style:  orDefaultStyle(c.Style),
		Color:  color,
	}
}

func orDefaultStyle(s model.ConnectionStyle) model.ConnectionStyle {
	if s == "" {
		return model.ConnectionArrow
	}
	return s
}
