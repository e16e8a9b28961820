package artifact

import (
	"context"
	"testing"
	"time"

	"infographica/internal/model"
)

func TestMemoryStorePutGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	a := model.NewArtifact([]byte("slide bytes"), "application/vnd.openxmlformats-officedocument.presentationml.presentation")

	ref, err := s.Put(ctx, a, time.Hour)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ref == "" {
		t.Fatal("expected non-empty reference")
	}

	got, err := s.Get(ctx, a.Hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Bytes) != "slide bytes" {
		t.Errorf("got bytes %q", got.Bytes)
	}

	exists, err := s.Exists(ctx, a.Hash)
	if err != nil || !exists {
		t.Errorf("Exists: got (%v, %v), want (true, nil)", exists, err)
	}
}

func TestMemoryStorePutIsIdempotentOnSameHash(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	a := model.NewArtifact([]byte("same content"), "image/svg+xml")

	ref1, err := s.Put(ctx, a, time.Hour)
	if err != nil {
		t.Fatalf("first Put: %v", err)
	}
	ref2, err := s.Put(ctx, a, time.Minute)
	if err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if ref1 != ref2 {
		t.Errorf("expected stable reference for repeated writes of the same hash, got %q and %q", ref1, ref2)
	}
}

func TestMemoryStoreGetMissingReturnsErrNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "does-not-exist")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiresByTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	a := model.NewArtifact([]byte("short-lived"), "image/svg+xml")

	if _, err := s.Put(ctx, a, -time.Second); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Get(ctx, a.Hash); err != ErrNotFound {
		t.Errorf("expected expired artifact to read back as ErrNotFound, got %v", err)
	}
}
