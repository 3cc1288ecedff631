package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/petrijr/floc/internal/persistence"
	"github.com/petrijr/floc/pkg/api"
)

// engineImpl is a synchronous, single-goroutine trampoline over flows.
type engineImpl struct {
	observer api.Observer
	history  persistence.HistoryStore
	ids      IDGenerator
}

// Config describes how to construct an engineImpl.
// Zero fields fall back to NoopObserver, NoopHistoryStore and UUIDv7 IDs.
type Config struct {
	Observer api.Observer
	History  persistence.HistoryStore
	IDs      IDGenerator
}

// NewEngine returns an Engine with no observer and no history.
func NewEngine() api.Engine {
	return NewEngineWithConfig(Config{})
}

// NewEngineWithObserver returns an Engine reporting to obs.
func NewEngineWithObserver(obs api.Observer) api.Engine {
	return NewEngineWithConfig(Config{Observer: obs})
}

// NewSQLiteEngine returns an Engine that appends execution history to a
// SQLite database.
func NewSQLiteEngine(db *sql.DB, obs api.Observer) (api.Engine, error) {
	hist, err := persistence.NewSQLiteHistoryStore(db)
	if err != nil {
		return nil, err
	}
	return NewEngineWithConfig(Config{Observer: obs, History: hist}), nil
}

// NewEngineWithConfig creates a new Engine using the given configuration.
func NewEngineWithConfig(cfg Config) api.Engine {
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	hist := cfg.History
	if hist == nil {
		hist = persistence.NoopHistoryStore{}
	}
	ids := cfg.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return &engineImpl{
		observer: obs,
		history:  hist,
		ids:      ids,
	}
}

func (e *engineImpl) Execute(ctx context.Context, flow *api.Flow, entry api.EntryID, args ...any) (any, error) {
	id, ok := api.RunIDFromContext(ctx)
	if ok {
		// Applies to this call only, not to executions nested inside it.
		ctx = api.WithRunID(ctx, "")
	} else {
		id = e.ids.Generate()
	}
	run := &api.Run{
		ID:        id,
		StartedAt: time.Now(),
		Flow:      flow,
		Entry:     entry,
	}
	ctx = api.WithRun(ctx, run)

	e.observer.OnExecuteStart(ctx, run)
	e.record(ctx, run, api.RecordRunStarted, flow, entry, "")

	result, err := e.trampoline(ctx, run, flow, entry, args)

	if err != nil {
		e.record(ctx, run, api.RecordRunFailed, run.Flow, run.Entry, err.Error())
	} else {
		e.record(ctx, run, api.RecordRunCompleted, run.Flow, run.Entry, fmt.Sprint(result))
	}
	e.observer.OnExecuteEnd(ctx, run, result, err)

	return result, err
}

// trampoline runs the current flow until it yields a signal, rebinding the
// flow/entry/args triple on every SwitchTo.
func (e *engineImpl) trampoline(ctx context.Context, run *api.Run, flow *api.Flow, entry api.EntryID, args []any) (any, error) {
	for {
		if flow == nil {
			return nil, fmt.Errorf("%w: cannot run entry point %q", api.ErrNilFlow, entry)
		}
		run.Flow = flow
		run.Entry = entry

		out, err := e.runFlow(ctx, run, flow, entry, args)
		if err != nil {
			return nil, err
		}

		switch out.Kind {
		case api.OutcomeSwitch:
			run.Transitions++
			flow, entry, args = out.Flow, out.Entry, out.Args
		case api.OutcomeTerminate:
			return out.Value, nil
		default:
			return nil, fmt.Errorf("flow %q stopped without a control signal", flow.Name())
		}
	}
}

func (e *engineImpl) record(ctx context.Context, run *api.Run, typ api.RecordType, flow *api.Flow, entry api.EntryID, detail string) {
	rec := api.Record{
		RunID:  run.ID,
		At:     time.Now(),
		Type:   typ,
		Entry:  entry,
		Detail: detail,
	}
	if flow != nil {
		rec.Flow = flow.Name()
	}
	// History is best-effort; a failing store must not change flow semantics.
	_ = e.history.Append(ctx, rec)
}
