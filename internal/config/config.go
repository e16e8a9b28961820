// Package config implements the closed configuration surface of spec.md
// §6: a single struct enumerating exactly the recognized options, loaded
// the way the teacher's internal/gateway/config/config.go does it
// (flag for process flags, github.com/joho/godotenv for .env loading,
// environment variables read with strings.TrimSpace/firstNonEmpty
// helpers, an explicit per-environment branch).
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"infographica/internal/model"
)

// ArtifactConfig mirrors the teacher's ArtifactConfig field-for-field; it
// backs spec.md §6's artifact-storage-url option.
type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RateLimitConfig is one plan's per-minute/per-day bound, the shape
// spec.md §6's rate-limit-per-plan option enumerates. -1 disables a bound.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerDay    int
}

// PlanLimitsConfig is one plan's recognized option set, spec.md §4.8's
// table given a config-file-friendly shape (string tiers/formats instead
// of model.Tier/model.OutputFormat, converted by Config.MeterLimits).
type PlanLimitsConfig struct {
	GenerationsPerMonth   int // -1 disables the cap
	MaxEntitiesPerDiagram int
	AllowedModelTiers     []string
	AllowedOutputFormats  []string
	ArtifactTTLHours      int
}

// ModelChainEntry is one link of spec.md §6's default-model-map: an
// ordered provider-model pair overriding the gateway's built-in chains.
type ModelChainEntry struct {
	Provider          string
	Model             string
	APIKeyEnv         string
	MaxTokens         int
	InputPerTokenUSD  float64
	OutputPerTokenUSD float64
}

// Config is the closed option set: unknown keys have no field to land in,
// so loading from a stricter source (file, flags) than env vars rejects
// them by construction rather than silently ignoring them.
type Config struct {
	Env         string
	RedisURL    string
	DatabaseURL string

	Artifact ArtifactConfig

	// DefaultModelMap is spec.md §6's option of the same name: an ordered
	// chain per tier. Empty means "use the gateway's built-in chains"
	// (internal/llm/client.RegisterDefaultModels).
	DefaultModelMap map[model.Tier][]ModelChainEntry

	LLMCacheTTLSeconds int
	CostBudgetDailyUSD float64

	RateLimitPerPlan map[string]RateLimitConfig
	PlanLimits       map[string]PlanLimitsConfig

	FontFallbackChain []string
}

// Load reads configuration from .env, environment variables, and process
// flags, following the teacher's Load() exactly except for the dropped
// HTTP Port option (spec.md §1: the HTTP surface is an external
// collaborator, out of scope for this module).
func Load() (*Config, error) {
	_ = godotenv.Load()

	skipCacheCheck := flag.Bool("skip-cache-check", false, "unused; reserved for CLI parity with the teacher's flag-parsed binaries")
	flag.Parse()
	_ = skipCacheCheck

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	cfg := &Config{
		Env:                env,
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Artifact:           loadArtifactConfig(env),
		DefaultModelMap:    map[model.Tier][]ModelChainEntry{},
		LLMCacheTTLSeconds: envIntOr("LLM_CACHE_TTL_SECONDS", 3600),
		CostBudgetDailyUSD: envFloatOr("COST_BUDGET_DAILY_USD", 25.0),
		RateLimitPerPlan:   map[string]RateLimitConfig{},
		PlanLimits:         map[string]PlanLimitsConfig{},
		FontFallbackChain:  defaultFontFallbackChain(),
	}

	if strings.EqualFold(env, "local") {
		applyLocalDefaults(cfg)
	}

	return cfg, nil
}

func defaultFontFallbackChain() []string {
	return []string{"default", "latin", "cjk", "arabic", "hebrew", "universal"}
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	return ArtifactConfig{
		Enabled:   strings.EqualFold(env, "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(os.Getenv("ARTIFACT_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(os.Getenv("ARTIFACT_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(os.Getenv("ARTIFACT_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(os.Getenv("ARTIFACT_S3_BUCKET"), "infographica-artifacts"),
		UseSSL:    resolveArtifactUseSSL(env),
	}
}

func resolveArtifactEndpoint(env string) string {
	if strings.EqualFold(env, "local") {
		return firstNonEmpty(os.Getenv("ARTIFACT_MINIO_ENDPOINT"), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(env, "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func envIntOr(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envFloatOr(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

// CanUseRedis reports whether enough Redis configuration is present to
// prefer the shared-state backend over the in-process fallback.
func (c *Config) CanUseRedis() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// CanUsePostgres reports whether enough Postgres configuration is present
// to prefer the durable GenerationRecord store over the in-memory one.
func (c *Config) CanUsePostgres() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// CanUseS3 mirrors the teacher's ArtifactConfig.CanUseS3: every field the
// minio client needs must be present.
func (c ArtifactConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

// Validate rejects configuration this module cannot act on: an
// unrecognized plan name appearing in RateLimitPerPlan/PlanLimits without
// a matching meter.Plan, or a tier named in DefaultModelMap outside the
// closed model.Tier set. Called once at startup so a typo in an operator's
// environment fails fast instead of silently degrading.
func (c *Config) Validate() error {
	for tier := range c.DefaultModelMap {
		switch tier {
		case model.TierFast, model.TierStandard, model.TierPremium, model.TierVision:
		default:
			return fmt.Errorf("config: default-model-map names unrecognized tier %q", tier)
		}
	}
	for name := range c.PlanLimits {
		if _, err := toPlan(name); err != nil {
			return err
		}
	}
	for name := range c.RateLimitPerPlan {
		if _, err := toPlan(name); err != nil {
			return err
		}
	}
	return nil
}
