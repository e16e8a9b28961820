package meter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"infographica/internal/model"
)

// RecordStore persists GenerationRecords and answers the monthly-count
// query the quota check (spec.md §4.9 step 2) needs. Writes are idempotent
// on the record's ID (spec.md §5: "re-delivery does not double-count").
type RecordStore interface {
	Save(ctx context.Context, rec model.GenerationRecord) error
	CountThisMonth(ctx context.Context, caller string, now time.Time) (int, error)
}

// PostgresRecordStore is a plain pgx/v5 implementation, grounded on the
// teacher's database/sql-over-Postgres artifact store rather than its
// ent-generated one (no generated client exists for this schema).
type PostgresRecordStore struct {
	pool       *pgxpool.Pool
	schemaOnce sync.Once
	schemaErr  error
}

// NewPostgresRecordStore wraps an existing pgx connection pool.
func NewPostgresRecordStore(pool *pgxpool.Pool) *PostgresRecordStore {
	return &PostgresRecordStore{pool: pool}
}

func (s *PostgresRecordStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS generation_records (
    id TEXT PRIMARY KEY,
    caller TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL,
    truncated_prompt TEXT NOT NULL,
    diagram_type TEXT NOT NULL,
    tier TEXT NOT NULL,
    model_used TEXT NOT NULL,
    input_tokens INT NOT NULL,
    output_tokens INT NOT NULL,
    cost_usd DOUBLE PRECISION NOT NULL,
    wall_time_ms BIGINT NOT NULL,
    cache_hit BOOLEAN NOT NULL,
    output_formats JSONB NOT NULL,
    entity_count INT NOT NULL,
    language TEXT NOT NULL,
    failure_kind TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_generation_records_caller_month
    ON generation_records (caller, date_trunc('month', created_at));
`)
	})
	return s.schemaErr
}

func (s *PostgresRecordStore) Save(ctx context.Context, rec model.GenerationRecord) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("meter: ensure schema: %w", err)
	}
	formats, err := json.Marshal(rec.OutputFormats)
	if err != nil {
		return fmt.Errorf("meter: marshal output formats: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO generation_records
    (id, caller, created_at, truncated_prompt, diagram_type, tier, model_used,
     input_tokens, output_tokens, cost_usd, wall_time_ms, cache_hit,
     output_formats, entity_count, language, failure_kind)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (id) DO NOTHING
`,
		rec.ID, rec.Caller, rec.Timestamp, rec.TruncatedPrompt, string(rec.DiagramType), string(rec.Tier), rec.ModelUsed,
		rec.InputTokens, rec.OutputTokens, rec.CostUSD, rec.WallTimeMS, rec.CacheHit,
		formats, rec.EntityCount, rec.Language, rec.FailureKind,
	)
	if err != nil {
		return fmt.Errorf("meter: save generation record: %w", err)
	}
	return nil
}

func (s *PostgresRecordStore) CountThisMonth(ctx context.Context, caller string, now time.Time) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, fmt.Errorf("meter: ensure schema: %w", err)
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var count int
	err := s.pool.QueryRow(ctx, `
SELECT count(*) FROM generation_records
WHERE caller = $1 AND created_at >= $2 AND failure_kind = ''
`, caller, monthStart).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("meter: count this month: %w", err)
	}
	return count, nil
}
