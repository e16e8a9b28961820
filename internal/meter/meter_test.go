package meter

import (
	"context"
	"errors"
	"testing"
	"time"

	"infographica/internal/cache/memory"
	"infographica/internal/ierrors"
	"infographica/internal/model"
)

func newTestMeter() *Meter {
	limiter := NewRateLimiter(memory.New())
	records := NewMemoryRecordStore()
	return New(limiter, records)
}

func TestCheckRateAllowsUnderLimitAndBlocksOverLimit(t *testing.T) {
	m := newTestMeter()
	ctx := context.Background()
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := m.CheckRate(ctx, "caller-1", PlanFree, now); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
	if err := m.CheckRate(ctx, "caller-1", PlanFree, now); !errors.Is(err, ierrors.RateLimited) {
		t.Errorf("expected RateLimited on 4th request within the same minute, got %v", err)
	}
}

func TestCheckRateWindowsAreIndependentPerCaller(t *testing.T) {
	m := newTestMeter()
	ctx := context.Background()
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := m.CheckRate(ctx, "caller-A", PlanFree, now); err != nil {
			t.Fatalf("caller-A request %d: unexpected error: %v", i, err)
		}
	}
	if err := m.CheckRate(ctx, "caller-B", PlanFree, now); err != nil {
		t.Errorf("caller-B's first request should not be limited by caller-A's usage: %v", err)
	}
}

func TestCheckQuotaBlocksAtMonthlyCap(t *testing.T) {
	m := newTestMeter()
	ctx := context.Background()
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		rec := model.GenerationRecord{ID: "gen-" + string(rune('a'+i)), Caller: "caller-1", Timestamp: now}
		if err := m.Record(ctx, rec); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if err := m.CheckQuota(ctx, "caller-1", PlanFree, now); !errors.Is(err, ierrors.QuotaExceeded) {
		t.Errorf("expected QuotaExceeded after 20 free-tier generations, got %v", err)
	}
}

func TestCheckQuotaUnlimitedForEnterprise(t *testing.T) {
	m := newTestMeter()
	ctx := context.Background()
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	if err := m.CheckQuota(ctx, "caller-1", PlanEnterprise, now); err != nil {
		t.Errorf("enterprise plan should never hit a quota cap: %v", err)
	}
}

func TestCheckBriefRejectsTooManyEntities(t *testing.T) {
	m := newTestMeter()
	entities := make([]model.Entity, 11)
	for i := range entities {
		entities[i] = model.Entity{ID: "e", Label: "x"}
	}
	brief := model.Brief{Entities: entities}
	if err := m.CheckBrief(PlanFree, brief); !errors.Is(err, ierrors.PlanLimitExceeded) {
		t.Errorf("expected PlanLimitExceeded for 11 entities on free plan (cap 10), got %v", err)
	}
}

func TestCheckTierRejectsDisallowedTier(t *testing.T) {
	m := newTestMeter()
	if err := m.CheckTier(PlanFree, model.TierPremium); !errors.Is(err, ierrors.PlanForbidsTier) {
		t.Errorf("expected PlanForbidsTier for free plan requesting PREMIUM, got %v", err)
	}
	if err := m.CheckTier(PlanFree, model.TierFast); err != nil {
		t.Errorf("free plan should permit FAST: %v", err)
	}
}

func TestAllowedFormatsNarrowsToPlan(t *testing.T) {
	m := newTestMeter()
	requested := []model.OutputFormat{model.OutputSVG, model.OutputEditableSlide, model.OutputRaster}
	got, err := m.AllowedFormats(PlanFree, requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != model.OutputSVG {
		t.Errorf("expected free plan to allow only svg, got %v", got)
	}
}

func TestRecordIsIdempotentOnID(t *testing.T) {
	m := newTestMeter()
	ctx := context.Background()
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	rec := model.GenerationRecord{ID: "dup", Caller: "caller-1", Timestamp: now}
	if err := m.Record(ctx, rec); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := m.Record(ctx, rec); err != nil {
		t.Fatalf("duplicate record: %v", err)
	}
	count, err := m.records.CountThisMonth(ctx, "caller-1", now)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected re-delivery to not double-count, got count=%d", count)
	}
}
