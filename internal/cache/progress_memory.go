package cache

import (
	"context"
	"encoding/json"
	"sync"

	"inducthub/internal/model"
)

// MemoryProgressStore keeps progress records in process memory. It shares
// the staleness and sequence rules with the Redis store and backs tests
// and single-node deployments without Redis.
type MemoryProgressStore struct {
	mu      sync.Mutex
	clock   Clock
	records map[string][]byte
}

// NewMemoryProgressStore creates an empty in-memory store.
func NewMemoryProgressStore(clock Clock) *MemoryProgressStore {
	if clock == nil {
		clock = RealClock()
	}
	return &MemoryProgressStore{
		clock:   clock,
		records: make(map[string][]byte),
	}
}

func (s *MemoryProgressStore) Save(_ context.Context, assignmentID string, rec *model.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.records[assignmentID]; ok {
		var existing model.ProgressRecord
		if err := json.Unmarshal(data, &existing); err == nil && existing.Seq > rec.Seq {
			return nil
		}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.records[assignmentID] = data
	return nil
}

func (s *MemoryProgressStore) Load(_ context.Context, assignmentID string) (*model.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.records[assignmentID]
	if !ok {
		return nil, nil
	}
	var rec model.ProgressRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		delete(s.records, assignmentID)
		return nil, nil
	}
	return normalizeRecord(&rec, s.clock.Now(), func() {
		delete(s.records, assignmentID)
	}), nil
}

func (s *MemoryProgressStore) Clear(_ context.Context, assignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, assignmentID)
	return nil
}

// Has reports whether a record is physically present, stale or not.
func (s *MemoryProgressStore) Has(assignmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[assignmentID]
	return ok
}
