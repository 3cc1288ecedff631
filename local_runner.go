package floc

import (
	"context"

	"github.com/petrijr/floc/internal/engine"
	"github.com/petrijr/floc/internal/persistence"
)

// LocalRunner bundles an Engine with in-memory history and BasicMetrics to
// provide a simple "local runner" for development and debugging.
//
// Typical usage:
//
//	runner := floc.NewLocalRunner()
//	runID, result, err := runner.Execute(ctx, menu, "show")
//	...
//	records, _ := runner.History(ctx, runID)
//	snap := runner.Metrics.Snapshot()
type LocalRunner struct {
	// Engine records into Records and reports to Metrics.
	Engine Engine

	// Records holds the history of every run executed by Engine.
	Records *persistence.InMemoryHistoryStore

	// Metrics counts runs, sweeps and events.
	Metrics *BasicMetrics

	ids engine.IDGenerator
}

// NewLocalRunner constructs a LocalRunner. Extra observers (for example a
// LoggingObserver) receive the same callbacks as Metrics.
//
// This is intended for local development, tests, and simple single-process
// programs. Nothing survives the process.
func NewLocalRunner(observers ...Observer) *LocalRunner {
	hist := persistence.NewInMemoryHistoryStore()
	metrics := &BasicMetrics{}
	ids := engine.UUIDv7Generator{}

	obs := NewCompositeObserver(append([]Observer{metrics}, observers...)...)
	eng := engine.NewEngineWithConfig(engine.Config{
		Observer: obs,
		History:  hist,
		IDs:      ids,
	})

	return &LocalRunner{
		Engine:  eng,
		Records: hist,
		Metrics: metrics,
		ids:     ids,
	}
}

// Execute runs flow from entry and also returns the run ID, which can be
// passed to History.
func (r *LocalRunner) Execute(ctx context.Context, flow *Flow, entry EntryID, args ...any) (string, any, error) {
	return executeWithID(ctx, r.Engine, r.ids, flow, entry, args)
}

// Runs lists the IDs of all runs executed so far, oldest first.
func (r *LocalRunner) Runs(ctx context.Context) ([]string, error) {
	return r.Records.Runs(ctx)
}

// History returns the records of a run.
func (r *LocalRunner) History(ctx context.Context, runID string) ([]Record, error) {
	return r.Records.List(ctx, runID)
}

func executeWithID(ctx context.Context, eng Engine, ids engine.IDGenerator, flow *Flow, entry EntryID, args []any) (string, any, error) {
	id := ids.Generate()
	result, err := eng.Execute(WithRunID(ctx, id), flow, entry, args...)
	return id, result, err
}
