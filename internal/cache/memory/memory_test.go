package memory

import (
	"context"
	"testing"
	"time"
)

func TestCacheGetSetRoundtrip(t *testing.T) {
	c := New()
	ctx := context.Background()
	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unset key")
	}
	if err := c.SetTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, err=%v ok=%v", err, ok)
	}
	if string(v) != "v" {
		t.Fatalf("got %q want %q", v, "v")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New()
	ctx := context.Background()
	if err := c.SetTTL(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected expired key to miss")
	}
}

func TestCacheIncr(t *testing.T) {
	c := New()
	ctx := context.Background()
	v, err := c.Incr(ctx, "counter", 1, time.Minute)
	if err != nil || v != 1 {
		t.Fatalf("got v=%d err=%v want 1", v, err)
	}
	v, err = c.Incr(ctx, "counter", 2, time.Minute)
	if err != nil || v != 3 {
		t.Fatalf("got v=%d err=%v want 3", v, err)
	}
}
