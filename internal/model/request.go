package model

// OutputFormat is one of the artifact kinds a caller can request.
type OutputFormat string

const (
	OutputEditableSlide OutputFormat = "editable-slide"
	OutputSVG           OutputFormat = "svg"
	OutputRaster        OutputFormat = "raster"
)

// GenerateRequest is the input to the orchestrator (spec §3).
type GenerateRequest struct {
	Prompt          string
	DiagramHint     string
	Palette         []string // up to 10 hex colors, caller-supplied
	BrandPreset     string   // named catalog lookup, e.g. "opentext" — see imageproc.LookupBrandPreset
	LogoBytes       []byte
	ReferenceImage  []byte
	TemplateBytes   []byte
	OutputFormats   []OutputFormat
	Language        string // detected if empty
	CallerID        string
	Plan            string
	EntityCountHint int
	SkipCache       bool
	Images          [][]byte // non-empty routes the classifier to VISION
}

// Validate enforces the GenerateRequest-level invariants spec §3/§4.9 names:
// a readable prompt, a bounded palette, and a recognized output set.
func (r GenerateRequest) Validate() error {
	if len(r.Prompt) == 0 {
		return errInvalid("prompt is required")
	}
	if len(r.Palette) > 10 {
		return errInvalid("palette may contain at most 10 colors, got %d", len(r.Palette))
	}
	for _, f := range r.OutputFormats {
		switch f {
		case OutputEditableSlide, OutputSVG, OutputRaster:
		default:
			return errInvalid("unrecognized output format %q", f)
		}
	}
	return nil
}
