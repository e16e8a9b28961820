// Command generate is the composition root of spec.md §4.9: it wires
// configuration, the LLM catalog, cache, metering, and the orchestrator,
// then drives one end-to-end Pipeline.Generate call, following the
// teacher's phase-oriented, flag-parsed cmd/archflow/main.go rather than
// an HTTP listener, since the HTTP surface is explicitly out of scope
// (spec.md §1).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"infographica/internal/artifact"
	"infographica/internal/cache"
	"infographica/internal/cache/memory"
	"infographica/internal/cache/redisstore"
	"infographica/internal/config"
	"infographica/internal/ierrors"
	"infographica/internal/llm"
	"infographica/internal/meter"
	"infographica/internal/model"
	"infographica/internal/orchestrator"
	"infographica/internal/reasoning"
)

func main() {
	prompt := flag.String("prompt", "", "the natural-language prompt to turn into an infographic")
	diagramHint := flag.String("diagram-type", "", "optional diagram-type hint (one of: "+archetypeList()+")")
	caller := flag.String("caller", "cli-user", "caller identity, for metering/rate-limiting")
	plan := flag.String("plan", "pro", "plan tier: free, pro, business, enterprise")
	formats := flag.String("formats", "svg,editable-slide", "comma-separated output formats to request")
	outDir := flag.String("out", "out", "directory to write rendered artifacts and the generation record to")
	skipCache := flag.Bool("skip-cache", false, "bypass the LLM response cache for this request")
	brandPreset := flag.String("brand-preset", "", "named brand color preset to apply, e.g. opentext, microsoft, aws (see imageproc.BrandPresetNames)")
	flag.Parse()

	if strings.TrimSpace(*prompt) == "" {
		log.Fatal("--prompt is required")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), orchestrator.DefaultRequestBudget)
	defer cancel()

	pipeline, err := build(ctx, cfg)
	if err != nil {
		log.Fatalf("build pipeline: %v", err)
	}

	req := model.GenerateRequest{
		Prompt:        *prompt,
		DiagramHint:   *diagramHint,
		BrandPreset:   *brandPreset,
		CallerID:      *caller,
		Plan:          *plan,
		OutputFormats: parseFormats(*formats),
		SkipCache:     *skipCache,
	}

	result, genErr := pipeline.Generate(ctx, req, meter.Plan(*plan))
	if genErr != nil {
		log.Printf("generation %s failed: %v", result.Record.ID, genErr)
	}

	if err := writeResult(ctx, pipeline.ArtifactStore(), *outDir, result); err != nil {
		log.Fatalf("write result: %v", err)
	}
	if genErr != nil {
		os.Exit(1)
	}
	log.Printf("generation %s produced %d artifact(s) in %dms", result.Record.ID, len(result.Artifacts), result.Record.WallTimeMS)
}

// build is the composition root proper: it chooses Redis vs an in-process
// cache, Postgres vs an in-memory record store, and S3 vs an in-memory
// artifact store based on what cfg can reach, exactly the teacher's
// initStores branch-on-DSN-presence pattern (internal/gateway/app/
// stores.go), then wires the LLM catalog, gateway, reasoning service,
// metering façade, and orchestrator on top.
func build(ctx context.Context, cfg *config.Config) (*orchestrator.Pipeline, error) {
	cacheCap := chooseCache(cfg)

	catalog := llm.NewCatalog()
	if err := cfg.RegisterModels(catalog); err != nil {
		return nil, fmt.Errorf("register models: %w", err)
	}
	gateway := llm.New(catalog, cacheCap)
	reasoningSvc := reasoning.New(gateway)

	records, err := chooseRecordStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	limits, err := cfg.MeterLimits()
	if err != nil {
		return nil, fmt.Errorf("meter limits: %w", err)
	}
	rateLimiter := meter.NewRateLimiter(cacheCap)
	meterFacade := meter.NewWithLimits(limits, rateLimiter, records)

	artifacts, err := chooseArtifactStore(cfg)
	if err != nil {
		return nil, err
	}

	pipeline := orchestrator.New(meterFacade, reasoningSvc, artifacts)
	return pipeline, nil
}

func chooseCache(cfg *config.Config) cache.Capability {
	if cfg.CanUseRedis() {
		log.Printf("cache: redis at %s", cfg.RedisURL)
		return redisstore.NewFromAddr(strings.TrimPrefix(cfg.RedisURL, "redis://"), "", 0)
	}
	log.Printf("cache: in-process (no REDIS_URL configured)")
	return memory.New()
}

func chooseRecordStore(ctx context.Context, cfg *config.Config) (meter.RecordStore, error) {
	if cfg.CanUsePostgres() {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Printf("record store: postgres")
		return meter.NewPostgresRecordStore(pool), nil
	}
	log.Printf("record store: in-memory (no DATABASE_URL configured)")
	return meter.NewMemoryRecordStore(), nil
}

func chooseArtifactStore(cfg *config.Config) (artifact.Store, error) {
	if cfg.Artifact.CanUseS3() {
		s3Store, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect artifact store: %w", err)
		}
		log.Printf("artifact store: s3 bucket=%s endpoint=%s", cfg.Artifact.Bucket, cfg.Artifact.Endpoint)
		return s3Store, nil
	}
	log.Printf("artifact store: in-memory (s3 config incomplete)")
	return artifact.NewMemoryStore(), nil
}

func parseFormats(raw string) []model.OutputFormat {
	var out []model.OutputFormat
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, model.OutputFormat(f))
	}
	return out
}

func archetypeList() string {
	names := make([]string, len(model.ValidArchetypes))
	for i, a := range model.ValidArchetypes {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// writeResult writes every produced artifact plus the generation record
// to outDir. Each artifact is fetched from the store by its content hash
// and written as <record id>-<format><ext>; the record and warnings go to
// <record id>.record.json.
func writeResult(ctx context.Context, store artifact.Store, outDir string, result orchestrator.Result) error {
	for _, ref := range result.Artifacts {
		art, err := store.Get(ctx, ref.Hash)
		if err != nil {
			return fmt.Errorf("fetch artifact %s: %w", ref.Hash, err)
		}
		ext := extensionFor(ref.Format)
		path := filepath.Join(outDir, fmt.Sprintf("%s-%s%s", result.Record.ID, ref.Format, ext))
		if err := os.WriteFile(path, art.Bytes, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("wrote %s (%s)", path, ref.Reference)
	}

	recordPath := filepath.Join(outDir, result.Record.ID+".record.json")
	recordJSON, err := json.MarshalIndent(struct {
		Record   model.GenerationRecord `json:"record"`
		Warnings []string               `json:"warnings,omitempty"`
	}{
		Record:   result.Record,
		Warnings: warningStrings(result.Warnings),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return os.WriteFile(recordPath, recordJSON, 0o644)
}

func extensionFor(format model.OutputFormat) string {
	switch format {
	case model.OutputSVG:
		return ".svg"
	case model.OutputEditableSlide:
		return ".pptx"
	default:
		return ".bin"
	}
}

func warningStrings(warnings ierrors.Warnings) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}
