package persistence

import (
	"context"

	"github.com/petrijr/floc/pkg/api"
)

// HistoryStore is an append-only store of execution history records.
type HistoryStore interface {
	Append(ctx context.Context, rec api.Record) error
	List(ctx context.Context, runID string) ([]api.Record, error)
}

// RunLister is implemented by stores that can enumerate the runs they hold.
type RunLister interface {
	Runs(ctx context.Context) ([]string, error)
}

// NoopHistoryStore discards all records.
type NoopHistoryStore struct{}

var _ HistoryStore = NoopHistoryStore{}

func (NoopHistoryStore) Append(ctx context.Context, rec api.Record) error { return nil }
func (NoopHistoryStore) List(ctx context.Context, runID string) ([]api.Record, error) {
	return nil, nil
}
