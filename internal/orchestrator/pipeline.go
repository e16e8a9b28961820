// Package orchestrator is the façade of spec.md §4.9: it wires the
// classifier, reasoning service, archetype solvers, renderers, metering,
// and artifact storage into a single Generate call per end-to-end
// request, grounded on the teacher's internal/gateway/app.New()
// composition-root style and internal/pipeline/mainline's staged-pipeline
// idiom (each stage a small, independently testable step called in strict
// sequence, per spec.md §5).
package orchestrator

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"infographica/internal/archetype"
	"infographica/internal/artifact"
	"infographica/internal/classifier"
	"infographica/internal/ierrors"
	"infographica/internal/imageproc"
	"infographica/internal/meter"
	"infographica/internal/model"
	"infographica/internal/reasoning"
	"infographica/internal/render/slide"
	"infographica/internal/render/svg"
	"infographica/internal/textmeasure"
)

// Default timeouts from spec.md §5.
const (
	DefaultReasoningTimeout = 20 * time.Second
	DefaultRequestBudget    = 45 * time.Second
)

// ArtifactRef is what the orchestrator hands back per produced output
// format: a caller-facing reference plus enough metadata to re-fetch it.
type ArtifactRef struct {
	Format      model.OutputFormat
	Reference   string
	ContentType string
	Hash        string
}

// Result is the end-to-end outcome of one Generate call.
type Result struct {
	Brief     model.Brief
	Layout    model.PositionedLayout
	Artifacts []ArtifactRef
	Record    model.GenerationRecord
	Warnings  ierrors.Warnings
}

// Pipeline is the composition root's façade type; one instance is built
// once at startup and its Generate method is called once per request
// (spec.md §5: many requests progress concurrently, each stage within a
// request strictly sequential except the render fan-out).
type Pipeline struct {
	meter     *meter.Meter
	reasoning *reasoning.Service
	artifacts artifact.Store

	clock            func() time.Time
	newID            func() string
	reasoningTimeout time.Duration
	requestBudget    time.Duration
	logger           *log.Logger
}

// New builds a Pipeline over its collaborators. Timeouts default to
// spec.md §5's values; use the With* options to override them (tests use
// this to keep cases fast).
func New(m *meter.Meter, r *reasoning.Service, artifacts artifact.Store) *Pipeline {
	return &Pipeline{
		meter:            m,
		reasoning:        r,
		artifacts:        artifacts,
		clock:            time.Now,
		newID:            func() string { return uuid.NewString() },
		reasoningTimeout: DefaultReasoningTimeout,
		requestBudget:    DefaultRequestBudget,
		logger:           log.Default(),
	}
}

// ArtifactStore exposes the Pipeline's artifact backend so a caller (the
// CLI composition root) can fetch artifact bytes by the hash an
// ArtifactRef carries, without the orchestrator itself taking on a
// download/export responsibility outside spec.md §4.9's scope.
func (p *Pipeline) ArtifactStore() artifact.Store {
	return p.artifacts
}

// WithReasoningTimeout overrides the reasoning-stage deadline.
func (p *Pipeline) WithReasoningTimeout(d time.Duration) *Pipeline {
	p.reasoningTimeout = d
	return p
}

// WithRequestBudget overrides the total soft request budget.
func (p *Pipeline) WithRequestBudget(d time.Duration) *Pipeline {
	p.requestBudget = d
	return p
}

// Generate runs one request through every stage of spec.md §4.9's
// pipeline, in order:
//
//  1. rate limiter, 2. quota, 3. preprocess inputs, 4. reasoning,
//  5. plan entity-count check, 6. text measurement (inline in step 7),
//  7. layout, 8. render fan-out, 9. artifact persistence,
//  10. metering record.
//
// A GenerationRecord is persisted exactly once regardless of outcome
// (spec.md §3, §4.8, §8 property 9); the record's FailureKind is empty on
// success.
func (p *Pipeline) Generate(ctx context.Context, req model.GenerateRequest, plan meter.Plan) (Result, error) {
	start := p.clock()
	id := p.newID()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.requestBudget)
		defer cancel()
	}

	rec := model.GenerationRecord{
		ID:              id,
		Caller:          req.CallerID,
		Timestamp:       start,
		TruncatedPrompt: model.TruncatePrompt(req.Prompt),
		OutputFormats:   req.OutputFormats,
	}

	result, err := p.run(ctx, req, plan, &rec)
	if err != nil && ctx.Err() != nil {
		// The soft request budget (spec.md §5) expired somewhere inside a
		// stage that doesn't itself map deadline expiry to ierrors.Timeout
		// (render fan-out, artifact store writes); the deadline always
		// takes precedence over whatever error a cancelled call surfaced.
		err = ierrors.Timeout
	}
	rec.WallTimeMS = p.clock().Sub(start).Milliseconds()
	if err != nil {
		rec.FailureKind = failureKind(err)
	}
	if recErr := p.meter.Record(detachedContext(ctx), rec); recErr != nil {
		p.logger.Printf("orchestrator: record generation %s: %v", id, recErr)
	}
	result.Record = rec
	return result, err
}

func (p *Pipeline) run(ctx context.Context, req model.GenerateRequest, plan meter.Plan, rec *model.GenerationRecord) (Result, error) {
	var warnings ierrors.Warnings

	if err := req.Validate(); err != nil {
		return Result{Warnings: warnings}, err
	}

	now := p.clock()
	if err := p.meter.CheckRate(ctx, req.CallerID, plan, now); err != nil {
		return Result{Warnings: warnings}, err
	}
	if err := p.meter.CheckQuota(ctx, req.CallerID, plan, now); err != nil {
		return Result{Warnings: warnings}, err
	}

	tier := classifier.Classify(req)
	rec.Tier = tier
	if err := p.meter.CheckTier(plan, tier); err != nil {
		return Result{Warnings: warnings}, err
	}

	prepared, preset, err := p.preprocess(req, &warnings)
	if err != nil {
		return Result{Warnings: warnings}, err
	}
	rec.Language = req.Language
	if rec.Language == "" {
		rec.Language = detectLanguage(prepared.Prompt)
	}

	reasonCtx, cancel := context.WithTimeout(ctx, p.reasoningTimeout)
	briefResult, err := p.reasoning.GenerateBriefDetailed(reasonCtx, prepared, tier, preset)
	timedOut := reasonCtx.Err() != nil
	cancel()
	if err != nil {
		if timedOut {
			return Result{Warnings: warnings}, ierrors.Timeout
		}
		return Result{Warnings: warnings}, err
	}
	brief := briefResult.Brief
	rec.DiagramType = brief.DiagramType
	rec.EntityCount = len(brief.Entities)
	rec.ModelUsed = briefResult.ModelUsed
	rec.InputTokens = briefResult.InputTokens
	rec.OutputTokens = briefResult.OutputTokens
	rec.CostUSD = briefResult.CostUSD
	rec.CacheHit = briefResult.CacheHit

	if err := p.meter.CheckBrief(plan, brief); err != nil {
		return Result{Warnings: warnings}, err
	}

	layout := archetype.Solve(brief, &warnings)

	allowed, err := p.meter.AllowedFormats(plan, req.OutputFormats)
	if err != nil {
		return Result{Warnings: warnings}, err
	}
	ttl, err := p.meter.ArtifactTTL(plan)
	if err != nil {
		return Result{Warnings: warnings}, err
	}

	refs, err := p.renderAndStore(ctx, brief, layout, allowed, ttl, &warnings)
	if err != nil {
		return Result{Brief: brief, Layout: layout, Warnings: warnings}, err
	}

	return Result{
		Brief:     brief,
		Layout:    layout,
		Artifacts: refs,
		Warnings:  warnings,
	}, nil
}

// preprocess returns the GenerateRequest with its normalized palette
// (caller palette plus any logo-derived colors, capped at ten) after
// spec.md §4.9 step 3, plus the brand theme taken from a named preset
// and/or an uploaded template, or nil when neither supplied one.
func (p *Pipeline) preprocess(req model.GenerateRequest, warnings *ierrors.Warnings) (model.GenerateRequest, *model.Theme, error) {
	out := req

	palette, err := imageproc.ParsePalette(req.Palette)
	if err != nil {
		return model.GenerateRequest{}, nil, err
	}

	if len(req.LogoBytes) > 0 {
		logoColors, err := imageproc.DominantColors(req.LogoBytes)
		if err != nil {
			warnings.Add("preprocess", "logo color extraction failed: "+err.Error())
		} else {
			palette = append(palette, logoColors...)
		}
	}
	if len(palette) > 10 {
		palette = palette[:10]
	}
	out.Palette = palette

	var snap imageproc.ThemeSnapshot
	var haveSnap bool
	if req.BrandPreset != "" {
		if named, ok := imageproc.LookupBrandPreset(req.BrandPreset); ok {
			snap, haveSnap = named, true
		} else {
			warnings.Add("preprocess", "unrecognized brand preset "+req.BrandPreset+"; known presets: "+strings.Join(imageproc.BrandPresetNames(), ", "))
		}
	}
	if len(req.TemplateBytes) > 0 {
		templateSnap, err := imageproc.ExtractThemeSnapshot(req.TemplateBytes)
		if err != nil {
			warnings.Add("preprocess", "template theme extraction failed: "+err.Error())
		} else {
			// An uploaded template is more specific to the caller than a
			// generic named preset, so its non-empty fields win.
			snap, haveSnap = mergeThemeSnapshot(snap, templateSnap), haveSnap || templateSnap != (imageproc.ThemeSnapshot{})
		}
	}

	var preset *model.Theme
	if haveSnap {
		preset = &model.Theme{
			Primary:    snap.Primary,
			Secondary:  snap.Secondary,
			Accent:     snap.Accent,
			FontFamily: snap.FontFamily,
		}
	}

	return out, preset, nil
}

// mergeThemeSnapshot overlays over's non-empty fields onto base, keeping
// base's value wherever over is empty.
func mergeThemeSnapshot(base, over imageproc.ThemeSnapshot) imageproc.ThemeSnapshot {
	out := base
	if over.Primary != "" {
		out.Primary = over.Primary
	}
	if over.Secondary != "" {
		out.Secondary = over.Secondary
	}
	if over.Accent != "" {
		out.Accent = over.Accent
	}
	if over.FontFamily != "" {
		out.FontFamily = over.FontFamily
	}
	return out
}

// renderAndStore invokes each allowed format's renderer concurrently
// (spec.md §5: "per-format renderers may be invoked in parallel ... since
// they share nothing mutable") and writes the resulting Artifacts, each
// content-addressed by Brief + theme + archetype version (spec.md §4.9
// step 8).
func (p *Pipeline) renderAndStore(ctx context.Context, brief model.Brief, layout model.PositionedLayout, formats []model.OutputFormat, ttl time.Duration, warnings *ierrors.Warnings) ([]ArtifactRef, error) {
	refs := make([]ArtifactRef, len(formats))
	g, gctx := errgroup.WithContext(ctx)

	for i, format := range formats {
		i, format := i, format
		g.Go(func() error {
			art, ok, err := renderFormat(format, layout)
			if err != nil {
				return err
			}
			if !ok {
				warnings.Add("render", "output format "+string(format)+" is not produced by any renderer (rasterization is out of scope)")
				return nil
			}
			if gctx.Err() != nil {
				return gctx.Err()
			}
			ref, err := p.artifacts.Put(gctx, art, ttl)
			if err != nil {
				return err
			}
			refs[i] = ArtifactRef{Format: format, Reference: ref, ContentType: art.ContentType, Hash: art.Hash}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]ArtifactRef, 0, len(refs))
	for _, r := range refs {
		if r.Reference != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func renderFormat(format model.OutputFormat, layout model.PositionedLayout) (model.Artifact, bool, error) {
	switch format {
	case model.OutputSVG:
		return model.NewArtifact(svg.Render(layout), "image/svg+xml"), true, nil
	case model.OutputEditableSlide:
		bytes, err := slide.Render(layout)
		if err != nil {
			return model.Artifact{}, false, err
		}
		return model.NewArtifact(bytes, "application/vnd.openxmlformats-officedocument.presentationml.presentation"), true, nil
	default:
		// model.OutputRaster: spec.md §1 names "pixel-perfect visual
		// rasterization fidelity" a non-goal; no renderer produces it.
		return model.Artifact{}, false, nil
	}
}

// detectLanguage returns a coarse BCP-47-ish tag from the dominant script
// in prompt, used only when the caller doesn't supply model.GenerateRequest.Language.
// This is a script heuristic, not real language identification: no
// language-detection library appears anywhere in the retrieved pack.
func detectLanguage(prompt string) string {
	var cjk, arabic, hebrew, latin int
	for _, r := range prompt {
		switch textmeasure.ClassifyRune(r) {
		case textmeasure.ScriptCJK:
			cjk++
		case textmeasure.ScriptArabic:
			arabic++
		case textmeasure.ScriptHebrew:
			hebrew++
		case textmeasure.ScriptLatin:
			latin++
		}
	}
	switch {
	case cjk > latin && cjk > arabic && cjk > hebrew:
		return "ja"
	case arabic > latin:
		return "ar"
	case hebrew > latin:
		return "he"
	default:
		return "en"
	}
}

// failureKind maps a pipeline error to the error-taxonomy name recorded on
// a failed GenerationRecord (spec.md §4.8: "Failed generations record the
// failure kind").
func failureKind(err error) string {
	for _, k := range []struct {
		err  error
		name string
	}{
		{ierrors.RateLimited, "RateLimited"},
		{ierrors.QuotaExceeded, "QuotaExceeded"},
		{ierrors.PlanLimitExceeded, "PlanLimitExceeded"},
		{ierrors.PlanForbidsTier, "PlanForbidsTier"},
		{ierrors.BriefRejected, "BriefRejected"},
		{ierrors.AllModelsFailed, "AllModelsFailed"},
		{ierrors.Timeout, "Timeout"},
		{ierrors.InputInvalid, "InputInvalid"},
		{ierrors.LayoutUnsatisfiable, "LayoutUnsatisfiable"},
	} {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "InternalError"
}

// detachedContext strips the deadline from ctx so the record write (which
// must happen even when the request itself timed out, per spec.md §5:
// "on expiry the request fails with Timeout ... the record shows Timeout")
// isn't also cancelled before it can run.
func detachedContext(ctx context.Context) context.Context {
	return detached{ctx}
}

type detached struct{ context.Context }

func (detached) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detached) Done() <-chan struct{}       { return nil }
func (detached) Err() error                  { return nil }
