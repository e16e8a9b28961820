// Package svg renders a PositionedLayout to a self-contained SVG document
// (spec.md §4.7/§6): XML 1.0, UTF-8, explicit viewBox, stable element ids,
// and a data-kind attribute on every shape.
package svg

import (
	"fmt"
	"sort"
	"strings"

	"infographica/internal/color"
	"infographica/internal/model"
	"infographica/internal/textmeasure"
)

// pxPerInch is the fixed scale spec.md §4.7 names for the SVG viewBox.
const pxPerInch = 96

// Render emits layout as a complete SVG document. It never errors: a
// malformed layout still produces the best-effort document the renderer
// can build from it, since by the time a PositionedLayout reaches here
// archetype.Solve has already enforced its invariants.
func Render(layout model.PositionedLayout) []byte {
	var sb strings.Builder
	widthPx := layout.SlideWidth * pxPerInch
	heightPx := layout.SlideHeight * pxPerInch

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.4f %.4f" width="%.4fpx" height="%.4fpx">`+"\n",
		widthPx, heightPx, widthPx, heightPx)

	fmt.Fprintf(&sb, `  <rect id="background" data-kind="background" x="0" y="0" width="%.4f" height="%.4f" fill="#%s"/>`+"\n",
		widthPx, heightPx, orDefault(layout.Background, "ffffff"))

	writeMarkerDefs(&sb)

	elements := orderedByZ(layout.Elements)
	for _, e := range elements {
		writeElement(&sb, e)
	}
	for _, c := range layout.Connectors {
		writeConnector(&sb, c)
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}

// orderedByZ returns elements sorted ascending by z-order, preserving
// input order for ties, so back-to-front stacking matches the renderer
// invariant the slide writer also honors.
func orderedByZ(elements []model.PositionedElement) []model.PositionedElement {
	out := make([]model.PositionedElement, len(elements))
	copy(out, elements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZOrder < out[j].ZOrder })
	return out
}

func writeMarkerDefs(sb *strings.Builder) {
	sb.WriteString(`  <defs>` + "\n")
	sb.WriteString(`    <marker id="arrowhead" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">` + "\n")
	sb.WriteString(`      <path d="M0,0 L10,5 L0,10 z"/>` + "\n")
	sb.WriteString(`    </marker>` + "\n")
	sb.WriteString(`  </defs>` + "\n")
}

func writeElement(sb *strings.Builder, e model.PositionedElement) {
	x, y := toPx(e.Rect.X), toPx(e.Rect.Y)
	w, h := toPx(e.Rect.Width), toPx(e.Rect.Height)
	kind := string(e.Kind)

	switch e.Kind {
	case model.ElementTitle, model.ElementSubtitle, model.ElementLabel:
		writeTextElement(sb, e, x, y, w, h, kind)
	default:
		rx := toPx(cornerRadius(e))
		fmt.Fprintf(sb, `  <rect id="%s" data-kind="%s" x="%.4f" y="%.4f" width="%.4f" height="%.4f" rx="%.4f" fill="#%s" opacity="%.2f"`,
			xmlEscape(e.ID), kind, x, y, w, h, rx, orDefault(e.Fill, "ffffff"), orOpacity(e.Opacity))
		if e.Stroke != "" {
			fmt.Fprintf(sb, ` stroke="#%s" stroke-width="%.2f"`, e.Stroke, e.StrokeWidth)
		}
		sb.WriteString("/>\n")
		if e.Text != nil {
			writeTextNode(sb, e.ID+"-text", e.Text, x, y, w, h, blockTextColor(e))
		}
	}
}

func writeTextElement(sb *strings.Builder, e model.PositionedElement, x, y, w, h float64, kind string) {
	fmt.Fprintf(sb, `  <rect id="%s" data-kind="%s" x="%.4f" y="%.4f" width="%.4f" height="%.4f" fill="none"/>`+"\n",
		xmlEscape(e.ID), kind, x, y, w, h)
	if e.Text != nil {
		writeTextNode(sb, e.ID+"-text", e.Text, x, y, w, h, labelTextColor(e))
	}
}

// blockTextColor computes contrast text color from a block/band element's
// fill (spec.md §4.3's WCAG contrast rule) — Fill on these kinds is the
// shape's background, not a precomputed text color.
func blockTextColor(e model.PositionedElement) string {
	return color.TextColorFor(orDefault(e.Fill, "ffffff"))
}

// labelTextColor returns a title/subtitle/label element's text color: for
// these text-only kinds (no shape fill), Fill holds the precomputed
// contrast color the solver already chose against the canvas background.
func labelTextColor(e model.PositionedElement) string {
	return orDefault(e.Fill, "000000")
}

// writeTextNode lays out MeasuredText's wrapped lines as one <text> node
// per line, centered within (x, y, w, h), never a <path>, per spec.md
// §4.7's SVG contract. RTL scripts get a right-anchored text-anchor
// instead of PowerPoint-style paragraph direction, since SVG has no
// native paragraph-direction attribute.
func writeTextNode(sb *strings.Builder, id string, mt *model.MeasuredText, x, y, w, h float64, color string) {
	if mt == nil || len(mt.Lines) == 0 {
		return
	}
	lineHeightPx := mt.FontSize * 1.3 * (pxPerInch / 72.0)
	totalHeightPx := lineHeightPx * float64(len(mt.Lines))
	startY := y + (h-totalHeightPx)/2 + lineHeightPx*0.8

	anchor := "middle"
	cx := x + w/2
	if textmeasure.IsRTL(mt.Original) {
		anchor = "end"
		cx = x + w - 2
	}

	for i, line := range mt.Lines {
		ly := startY + float64(i)*lineHeightPx
		fmt.Fprintf(sb, `  <text id="%s-%d" x="%.4f" y="%.4f" font-size="%.2f" text-anchor="%s" fill="#%s">%s</text>`+"\n",
			id, i, cx, ly, mt.FontSize, anchor, orDefault(color, "000000"), xmlEscape(line))
	}
}

func writeConnector(sb *strings.Builder, c model.PositionedConnector) {
	startX, startY := toPx(c.Start.X), toPx(c.Start.Y)
	endX, endY := toPx(c.End.X), toPx(c.End.Y)
	dash := ""
	if c.Style == model.ConnectionDashed {
		dash = ` stroke-dasharray="6,4"`
	}
	markerStart := ""
	markerEnd := ` marker-end="url(#arrowhead)"`
	if c.Style == model.ConnectionBidirectional {
		markerStart = ` marker-start="url(#arrowhead)"`
	}
	if c.Style == model.ConnectionPlain {
		markerEnd = ""
	}
	strokeWidth := c.StrokeWidth
	if strokeWidth <= 0 {
		strokeWidth = 1.5
	}
	fmt.Fprintf(sb, `  <line id="%s" data-kind="connector" x1="%.4f" y1="%.4f" x2="%.4f" y2="%.4f" stroke="#%s" stroke-width="%.2f"%s%s%s/>`+"\n",
		xmlEscape(c.ID), startX, startY, endX, endY, orDefault(c.Color, "000000"), strokeWidth, dash, markerStart, markerEnd)
}

func cornerRadius(e model.PositionedElement) float64 {
	if e.CornerRadius <= 0 {
		return 0
	}
	return e.CornerRadius
}

func toPx(inches float64) float64 { return inches * pxPerInch }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orOpacity(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func xmlEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
