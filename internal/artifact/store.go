// Package artifact persists rendered output bytes, addressed by content
// hash (spec.md §3/§4.9), with write-once-per-hash semantics and a
// caller-supplied TTL.
package artifact

import (
	"context"
	"errors"
	"time"

	"infographica/internal/model"
)

// ErrNotFound is returned when no artifact exists for a given hash.
var ErrNotFound = errors.New("artifact not found")

// Store persists Artifacts keyed by their content hash and returns a
// caller-facing reference (a presigned URL for object storage,
// "memory://<hash>" for the in-memory dev/test store) each generation can
// hand back to its caller.
type Store interface {
	// Put writes a, TTL-bounded, and returns its reference. Put is
	// idempotent: writing the same hash twice is a no-op on the second
	// call rather than an overwrite, since identical content hashes to
	// the same key by construction.
	Put(ctx context.Context, a model.Artifact, ttl time.Duration) (reference string, err error)
	Get(ctx context.Context, hash string) (model.Artifact, error)
	Exists(ctx context.Context, hash string) (bool, error)
}
