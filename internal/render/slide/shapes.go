package slide

import (
	"fmt"
	"math"
	"strings"

	"infographica/internal/color"
	"infographica/internal/model"
	"infographica/internal/units"
)

// writeShape emits one <p:sp> for a block/band (filled rounded rectangle)
// or title/subtitle/label (text box, no fill) element, per spec.md §4.7.
func writeShape(sb *strings.Builder, id *int, e model.PositionedElement) {
	x, y := units.InchesToEMU(e.Rect.X), units.InchesToEMU(e.Rect.Y)
	w, h := units.InchesToEMU(e.Rect.Width), units.InchesToEMU(e.Rect.Height)
	shapeID := *id
	*id++

	switch e.Kind {
	case model.ElementTitle, model.ElementSubtitle, model.ElementLabel:
		writeTextBox(sb, shapeID, e, x, y, w, h, labelTextColor(e))
	default:
		writeFilledRect(sb, shapeID, e, x, y, w, h)
	}
}

func writeFilledRect(sb *strings.Builder, shapeID int, e model.PositionedElement, x, y, w, h int64) {
	adj := cornerAdjustment(e)
	fmt.Fprintf(sb, `      <p:sp>
        <p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
        <p:spPr>
          <a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>
          <a:prstGeom prst="roundRect"><a:avLst><a:gd name="adj" fmla="val %d"/></a:avLst></a:prstGeom>
          <a:solidFill><a:srgbClr val="%s"/></a:solidFill>
`, shapeID, xmlEscape(e.ID), x, y, w, h, adj, strings.ToUpper(orDefault(e.Fill, "FFFFFF")))
	if e.Stroke != "" {
		fmt.Fprintf(sb, `          <a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`+"\n",
			units.PointsToEMU(e.StrokeWidth), strings.ToUpper(e.Stroke))
	}
	sb.WriteString(`        </p:spPr>` + "\n")
	writeTextBody(sb, e.Text, blockTextColor(e), false)
	sb.WriteString(`      </p:sp>` + "\n")
}

func writeTextBox(sb *strings.Builder, shapeID int, e model.PositionedElement, x, y, w, h int64, textColor string) {
	fmt.Fprintf(sb, `      <p:sp>
        <p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
        <p:spPr>
          <a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>
          <a:prstGeom prst="rect"><a:avLst/></a:prstGeom>
          <a:noFill/>
        </p:spPr>
`, shapeID, xmlEscape(e.ID), x, y, w, h)
	writeTextBody(sb, e.Text, textColor, true)
	sb.WriteString(`      </p:sp>` + "\n")
}

// writeTextBody renders MeasuredText's wrapped lines as paragraphs,
// word-wrap on and auto-fit off (spec.md §4.7), vertically centered in
// block/band shapes; text boxes keep the default top anchor. The
// text frame is never left empty: a single space substitutes for nil/
// empty MeasuredText. RTL scripts get paragraph direction rtl="1".
func writeTextBody(sb *strings.Builder, mt *model.MeasuredText, hexColor string, isTextBox bool) {
	sb.WriteString(`        <p:txBody>` + "\n")
	anchor := ""
	if !isTextBox {
		anchor = ` anchor="ctr"`
	}
	fmt.Fprintf(sb, `          <a:bodyPr wrap="square"%s><a:noAutofit/></a:bodyPr>`+"\n", anchor)
	sb.WriteString(`          <a:lstStyle/>` + "\n")

	lines := []string{" "}
	fontSize := 18.0
	rtl := isRTLText(mt)
	if mt != nil && len(mt.Lines) > 0 {
		lines = mt.Lines
		fontSize = mt.FontSize
	}
	sz := int(math.Round(fontSize * 100))
	rtlAttr := ""
	if rtl {
		rtlAttr = ` rtl="1"`
	}
	for _, line := range lines {
		fmt.Fprintf(sb, `          <a:p><a:pPr algn="ctr"%s/><a:r><a:rPr lang="en-US" sz="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr><a:t>%s</a:t></a:r></a:p>`+"\n",
			rtlAttr, sz, strings.ToUpper(orDefault(hexColor, "000000")), xmlEscape(line))
	}
	sb.WriteString(`        </p:txBody>` + "\n")
}

// cornerAdjustment implements spec.md §4.7's corner-radius formula,
// min(0.15, corner-radius/height), expressed in OOXML roundRect "adj"
// units (hundred-thousandths of the shape's shorter dimension).
func cornerAdjustment(e model.PositionedElement) int {
	if e.CornerRadius <= 0 || e.Rect.Height <= 0 {
		return 0
	}
	fraction := e.CornerRadius / e.Rect.Height
	if fraction > 0.15 {
		fraction = 0.15
	}
	return int(math.Round(fraction * 100000))
}

func blockTextColor(e model.PositionedElement) string {
	return color.TextColorFor(orDefault(e.Fill, "ffffff"))
}

func labelTextColor(e model.PositionedElement) string {
	return orDefault(e.Fill, "000000")
}

func writeConnectorShape(sb *strings.Builder, id *int, c model.PositionedConnector) {
	shapeID := *id
	*id++

	x0, y0 := c.Start.X, c.Start.Y
	x1, y1 := c.End.X, c.End.Y
	minX, minY := math.Min(x0, x1), math.Min(y0, y1)
	w, h := math.Abs(x1-x0), math.Abs(y1-y0)
	flipH := x1 < x0
	flipV := y1 < y0

	flipAttrs := ""
	if flipH {
		flipAttrs += ` flipH="1"`
	}
	if flipV {
		flipAttrs += ` flipV="1"`
	}

	dash := ""
	if c.Style == model.ConnectionDashed {
		dash = `<a:prstDash val="dash"/>`
	}
	headEnd, tailEnd := "", `<a:tailEnd type="triangle"/>`
	if c.Style == model.ConnectionBidirectional {
		headEnd = `<a:headEnd type="triangle"/>`
	}
	if c.Style == model.ConnectionPlain {
		tailEnd = ""
	}
	strokeWidth := c.StrokeWidth
	if strokeWidth <= 0 {
		strokeWidth = 1.5
	}

	fmt.Fprintf(sb, `      <p:cxnSp>
        <p:nvCxnSpPr><p:cNvPr id="%d" name="%s"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>
        <p:spPr>
          <a:xfrm%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>
          <a:prstGeom prst="line"><a:avLst/></a:prstGeom>
          <a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill>%s%s%s</a:ln>
        </p:spPr>
        <p:style/>
      </p:cxnSp>
`, shapeID, xmlEscape(c.ID), flipAttrs,
		units.InchesToEMU(minX), units.InchesToEMU(minY), units.InchesToEMU(w), units.InchesToEMU(h),
		units.PointsToEMU(strokeWidth), strings.ToUpper(orDefault(c.Color, "000000")), dash, headEnd, tailEnd)
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
