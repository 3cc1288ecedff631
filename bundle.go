package floc

import (
	"context"
	"database/sql"

	"github.com/petrijr/floc/internal/engine"
	"github.com/petrijr/floc/internal/persistence"
)

// HistoryBundle wires together an Engine and a durable history store that
// share the same SQLite database.
type HistoryBundle struct {
	Engine Engine

	// store is kept unexported; callers read history through History and Runs.
	store *persistence.SQLiteHistoryStore
	ids   engine.IDGenerator
}

// NewSQLiteBundle constructs an Engine whose execution history is persisted
// in the provided *sql.DB. obs may be nil.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:floc.db?_pragma=journal_mode(WAL)")
//	bundle, err := floc.NewSQLiteBundle(db, nil)
//	runID, result, err := bundle.Execute(ctx, menu, "show")
//	records, err := bundle.History(ctx, runID)
func NewSQLiteBundle(db *sql.DB, obs Observer) (*HistoryBundle, error) {
	store, err := persistence.NewSQLiteHistoryStore(db)
	if err != nil {
		return nil, err
	}

	ids := engine.UUIDv7Generator{}
	eng := engine.NewEngineWithConfig(engine.Config{
		Observer: obs,
		History:  store,
		IDs:      ids,
	})

	return &HistoryBundle{
		Engine: eng,
		store:  store,
		ids:    ids,
	}, nil
}

// Execute runs flow from entry and also returns the run ID.
func (b *HistoryBundle) Execute(ctx context.Context, flow *Flow, entry EntryID, args ...any) (string, any, error) {
	return executeWithID(ctx, b.Engine, b.ids, flow, entry, args)
}

// History returns the records of a run, oldest first.
func (b *HistoryBundle) History(ctx context.Context, runID string) ([]Record, error) {
	return b.store.List(ctx, runID)
}

// Runs lists the IDs of all recorded runs, oldest first.
func (b *HistoryBundle) Runs(ctx context.Context) ([]string, error) {
	return b.store.Runs(ctx)
}
