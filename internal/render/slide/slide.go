// Package slide renders a PositionedLayout to a single-slide OOXML
// presentation (spec.md §4.7/§6): a standards-compliant .pptx built with
// archive/zip from hand-written XML strings, no template theme beyond a
// blank master.
package slide

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"infographica/internal/model"
	"infographica/internal/textmeasure"
	"infographica/internal/units"
)

// Render emits layout as a complete .pptx file. It never errors on a
// well-formed PositionedLayout; the only failure mode is the zip writer
// itself, which only fails on an unwritable buffer.
func Render(layout model.PositionedLayout) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", docPropsCoreXML},
		{"docProps/app.xml", docPropsAppXML},
		{"ppt/presentation.xml", presentationXML(layout)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/slides/slide1.xml", slideXML(layout)},
		{"ppt/slides/_rels/slide1.xml.rels", slideRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("slide: create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("slide: write %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("slide: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func presentationXML(layout model.PositionedLayout) string {
	cx := units.InchesToEMU(layout.SlideWidth)
	cy := units.InchesToEMU(layout.SlideHeight)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>
  <p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst>
  <p:sldSz cx="%d" cy="%d" type="screen16x9"/>
  <p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>`, cx, cy)
}

func slideXML(layout model.PositionedLayout) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
`)
	sb.WriteString(`  <p:cSld>` + "\n")
	writeBackground(&sb, layout.Background)
	sb.WriteString(`    <p:spTree>` + "\n")
	sb.WriteString(`      <p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` + "\n")
	sb.WriteString(`      <p:grpSpPr/>` + "\n")

	id := 2
	for _, e := range orderedByZ(layout.Elements) {
		writeShape(&sb, &id, e)
	}
	for _, c := range layout.Connectors {
		writeConnectorShape(&sb, &id, c)
	}

	sb.WriteString(`    </p:spTree>` + "\n")
	sb.WriteString(`  </p:cSld>` + "\n")
	sb.WriteString(`  <p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` + "\n")
	sb.WriteString(`</p:sld>` + "\n")
	return sb.String()
}

func writeBackground(sb *strings.Builder, hex string) {
	fmt.Fprintf(sb, `    <p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`+"\n",
		strings.ToUpper(orDefault(hex, "ffffff")))
}

// orderedByZ returns elements sorted ascending by z-order so the OOXML
// shape tree's document order (its only stacking signal) matches
// spec.md §4.7's "written in ascending z-order" requirement.
func orderedByZ(elements []model.PositionedElement) []model.PositionedElement {
	out := make([]model.PositionedElement, len(elements))
	copy(out, elements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZOrder < out[j].ZOrder })
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func isRTLText(mt *model.MeasuredText) bool {
	return mt != nil && textmeasure.IsRTL(mt.Original)
}
