package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/petrijr/floc/pkg/api"
)

// InMemoryHistoryStore is a simple, goroutine-safe HistoryStore backed by a
// map of per-run slices.
type InMemoryHistoryStore struct {
	mu    sync.RWMutex
	byRun map[string][]api.Record
	runs  []string
}

// NewInMemoryHistoryStore creates a new InMemoryHistoryStore.
func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		byRun: make(map[string][]api.Record),
	}
}

var _ HistoryStore = (*InMemoryHistoryStore)(nil)

func (s *InMemoryHistoryStore) Append(ctx context.Context, rec api.Record) error {
	if rec.At.IsZero() {
		rec.At = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.byRun[rec.RunID]; !seen {
		s.runs = append(s.runs, rec.RunID)
	}
	s.byRun[rec.RunID] = append(s.byRun[rec.RunID], rec)
	return nil
}

func (s *InMemoryHistoryStore) List(ctx context.Context, runID string) ([]api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.byRun[runID]
	out := make([]api.Record, len(recs))
	copy(out, recs)
	return out, nil
}

// Runs returns the IDs of all runs seen, oldest first.
func (s *InMemoryHistoryStore) Runs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.runs...), nil
}
