package reasoning

import (
	"fmt"
	"strings"

	"infographica/internal/model"
)

// archetypeCatalogue is the fixed system-prompt description of every
// diagram family the Reasoning Service may choose, one line each, in
// spec.md §4.3's listing order.
var archetypeCatalogue = []string{
	"marketecture: a main row of business-unit boxes, an optional cross-cutting band above or below spanning the full width",
	"process-flow: a left-to-right sequence of steps, wrapping into a second row with a U-turn when there are more than six",
	"tech-stack: a vertical stack of layers, infrastructure at the bottom, the application layer at the top",
	"comparison: a grid with a header row and header column, one row per item and one column per criterion",
	"timeline: a horizontal line of evenly spaced date markers, with descriptions alternating above and below it",
	"org-structure: one row per hierarchy level, children centered beneath their parent with tree connectors",
	"value-chain: a horizontal chain of overlapping chevrons, one per stage",
	"hub-spoke: one central element with satellites arranged on a circle around it",
}

const spatialAndStyleRules = `Use shapes, text, and spatial relationships only; never describe or request stock imagery, photographs, icons from an external library, or decorative illustration.
Every entity needs a short, readable label; keep descriptions to one sentence.
Pick exactly one diagram-type from the catalogue above unless the user's prompt names one directly.
Colors in the theme must be 6-digit lowercase hex without a leading '#'.`

const languageRule = `Produce every piece of entity text (labels, descriptions, titles, layer labels, connection labels) in the same language as the user's prompt. Do not translate to English unless the prompt is already in English.`

// buildSystemMessage assembles the fixed archetype catalogue, spatial/style
// rules, and language instruction the Reasoning Service sends with every
// request (spec.md §4.6).
func buildSystemMessage() string {
	var b strings.Builder
	b.WriteString("You are the reasoning stage of an infographic generator. Given a prompt, produce a single JSON Brief describing the diagram to draw.\n\n")
	b.WriteString("[ARCHETYPES]\n")
	for _, line := range archetypeCatalogue {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n[SPATIAL_AND_STYLE_RULES]\n")
	b.WriteString(spatialAndStyleRules)
	b.WriteString("\n\n[LANGUAGE]\n")
	b.WriteString(languageRule)
	b.WriteString("\n\n[OUTPUT_FORMAT]\n")
	b.WriteString("Respond with a single JSON object matching the Brief schema: schema-version, diagram-type, title, subtitle, entities[{id,label,description,group,emphasis}], layers[{id,label,position,members}], connections[{from-id,to-id,label,style}], theme{primary,secondary,accent,background,text,font-family,corner-radius,padding}, layout-hint. No prose outside the JSON object.")
	return b.String()
}

// buildUserMessage assembles the raw prompt, any extracted palette, and any
// brand-preset snapshot (spec.md §4.6). Image bytes for vision calls travel
// out-of-band via llm.CompleteOptions.Images, not inline in this text, but
// their presence is still announced so the model knows to look at them.
func buildUserMessage(req model.GenerateRequest, preset *model.Theme) string {
	var b strings.Builder
	b.WriteString("[PROMPT]\n")
	b.WriteString(strings.TrimSpace(req.Prompt))
	b.WriteString("\n")

	if len(req.Palette) > 0 {
		b.WriteString("\n[PALETTE]\n")
		b.WriteString(strings.Join(req.Palette, ", "))
		b.WriteString("\n")
	}

	if preset != nil {
		b.WriteString("\n[BRAND_PRESET]\n")
		fmt.Fprintf(&b, "primary=%s secondary=%s accent=%s background=%s text=%s font-family=%s\n",
			orNone(preset.Primary), orNone(preset.Secondary), orNone(preset.Accent),
			orNone(preset.Background), orNone(preset.Text), orNone(preset.FontFamily))
	}

	if req.DiagramHint != "" {
		b.WriteString("\n[DIAGRAM_HINT]\n")
		b.WriteString(req.DiagramHint)
		b.WriteString("\n")
	}

	if len(req.Images) > 0 {
		b.WriteString("\n[ATTACHED_IMAGES]\n")
		fmt.Fprintf(&b, "%d reference image(s) are attached to this message.\n", len(req.Images))
	}

	return strings.TrimSpace(b.String()) + "\n"
}

// appendValidationRetry builds the retry user message spec.md §4.6
// prescribes: the original user message plus the prior attempt's
// validation errors.
func appendValidationRetry(userMessage string, validationErrors []string) string {
	var b strings.Builder
	b.WriteString(userMessage)
	b.WriteString("\n[PRIOR_ATTEMPT_REJECTED]\n")
	b.WriteString("The previous response failed schema validation for the following reasons. Produce a corrected Brief that fixes every one of them.\n")
	for _, e := range validationErrors {
		b.WriteString("- ")
		b.WriteString(e)
		b.WriteString("\n")
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
