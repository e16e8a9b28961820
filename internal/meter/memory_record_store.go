package meter

import (
	"context"
	"sync"
	"time"

	"infographica/internal/model"
)

// MemoryRecordStore is a RecordStore for tests and single-instance
// deployments, mirroring internal/artifact.MemoryStore's role alongside
// its S3-backed counterpart.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]model.GenerationRecord
}

// NewMemoryRecordStore returns an empty MemoryRecordStore.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: map[string]model.GenerationRecord{}}
}

var _ RecordStore = (*MemoryRecordStore)(nil)

func (s *MemoryRecordStore) Save(ctx context.Context, rec model.GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return nil
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryRecordStore) CountThisMonth(ctx context.Context, caller string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count := 0
	for _, rec := range s.records {
		if rec.Caller == caller && rec.FailureKind == "" && !rec.Timestamp.Before(monthStart) {
			count++
		}
	}
	return count, nil
}
