package api

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from the engine for logging and metrics.
//
// Callbacks run on the engine's goroutine, in the middle of a run, so
// implementations should return quickly.
type Observer interface {
	// OnExecuteStart is called once per Execute, before the first flow runs.
	OnExecuteStart(ctx context.Context, run *Run)

	// OnFlowEnter is called each time the engine starts running a flow.
	OnFlowEnter(ctx context.Context, run *Run, flow *Flow, entry EntryID)

	// OnSweep is called after every completed sweep.
	OnSweep(ctx context.Context, run *Run, flow *Flow, stats SweepStats)

	// OnFlowExit is called when a flow is left through a control signal,
	// after its termination actions ran.
	OnFlowExit(ctx context.Context, run *Run, flow *Flow, out Outcome)

	// OnFlowError is called when a flow fails. cleaned reports whether an
	// exception action matched the error.
	OnFlowError(ctx context.Context, run *Run, flow *Flow, err error, cleaned bool)

	// OnExecuteEnd is called once when Execute returns.
	OnExecuteEnd(ctx context.Context, run *Run, result any, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnExecuteStart(ctx context.Context, run *Run)                         {}
func (NoopObserver) OnFlowEnter(ctx context.Context, run *Run, flow *Flow, entry EntryID) {}
func (NoopObserver) OnSweep(ctx context.Context, run *Run, flow *Flow, stats SweepStats)  {}
func (NoopObserver) OnFlowExit(ctx context.Context, run *Run, flow *Flow, out Outcome)    {}
func (NoopObserver) OnExecuteEnd(ctx context.Context, run *Run, result any, err error)    {}
func (NoopObserver) OnFlowError(ctx context.Context, run *Run, flow *Flow, err error, cleaned bool) {
}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnExecuteStart(ctx context.Context, run *Run) {
	for _, o := range c.observers {
		o.OnExecuteStart(ctx, run)
	}
}

func (c *CompositeObserver) OnFlowEnter(ctx context.Context, run *Run, flow *Flow, entry EntryID) {
	for _, o := range c.observers {
		o.OnFlowEnter(ctx, run, flow, entry)
	}
}

func (c *CompositeObserver) OnSweep(ctx context.Context, run *Run, flow *Flow, stats SweepStats) {
	for _, o := range c.observers {
		o.OnSweep(ctx, run, flow, stats)
	}
}

func (c *CompositeObserver) OnFlowExit(ctx context.Context, run *Run, flow *Flow, out Outcome) {
	for _, o := range c.observers {
		o.OnFlowExit(ctx, run, flow, out)
	}
}

func (c *CompositeObserver) OnFlowError(ctx context.Context, run *Run, flow *Flow, err error, cleaned bool) {
	for _, o := range c.observers {
		o.OnFlowError(ctx, run, flow, err, cleaned)
	}
}

func (c *CompositeObserver) OnExecuteEnd(ctx context.Context, run *Run, result any, err error) {
	for _, o := range c.observers {
		o.OnExecuteEnd(ctx, run, result, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs execution and flow
// lifecycle events using the provided slog.Logger. If logger is nil,
// slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnExecuteStart(ctx context.Context, run *Run) {
	o.Logger.InfoContext(ctx, "execute_start",
		slog.String("run_id", run.ID),
		slog.String("flow", flowName(run.Flow)),
		slog.String("entry", string(run.Entry)),
	)
}

func (o *LoggingObserver) OnFlowEnter(ctx context.Context, run *Run, flow *Flow, entry EntryID) {
	o.Logger.InfoContext(ctx, "flow_enter",
		slog.String("run_id", run.ID),
		slog.String("flow", flowName(flow)),
		slog.String("entry", string(entry)),
		slog.Int("transitions", run.Transitions),
	)
}

func (o *LoggingObserver) OnSweep(ctx context.Context, run *Run, flow *Flow, stats SweepStats) {
	o.Logger.DebugContext(ctx, "sweep",
		slog.String("run_id", run.ID),
		slog.String("flow", flowName(flow)),
		slog.Int("sweep", stats.Sweep),
		slog.Int("polled", stats.Polled),
		slog.Int("handled", stats.Handled),
		slog.Bool("discarded", stats.Discarded),
	)
}

func (o *LoggingObserver) OnFlowExit(ctx context.Context, run *Run, flow *Flow, out Outcome) {
	o.Logger.InfoContext(ctx, "flow_exit",
		slog.String("run_id", run.ID),
		slog.String("flow", flowName(flow)),
		slog.String("outcome", out.String()),
	)
}

func (o *LoggingObserver) OnFlowError(ctx context.Context, run *Run, flow *Flow, err error, cleaned bool) {
	o.Logger.ErrorContext(ctx, "flow_error",
		slog.String("run_id", run.ID),
		slog.String("flow", flowName(flow)),
		slog.Bool("cleaned", cleaned),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnExecuteEnd(ctx context.Context, run *Run, result any, err error) {
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "execute_end",
		slog.String("run_id", run.ID),
		slog.Int("transitions", run.Transitions),
		slog.Any("result", result),
		slog.Any("error", err),
	)
}

func flowName(f *Flow) string {
	if f == nil {
		return ""
	}
	return f.Name()
}

// BasicMetrics collects simple counters. It implements Observer, and can be
// combined with LoggingObserver via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	executionsStarted   atomic.Int64
	executionsCompleted atomic.Int64
	executionsFailed    atomic.Int64
	flowsEntered        atomic.Int64
	flowErrors          atomic.Int64
	sweeps              atomic.Int64
	eventsPolled        atomic.Int64
	eventsHandled       atomic.Int64
	discards            atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	ExecutionsStarted   int64
	ExecutionsCompleted int64
	ExecutionsFailed    int64
	RunningExecutions   int64

	FlowsEntered int64
	FlowErrors   int64

	Sweeps        int64
	EventsPolled  int64
	EventsHandled int64
	Discards      int64
}

func (m *BasicMetrics) OnExecuteStart(ctx context.Context, run *Run) {
	m.executionsStarted.Add(1)
}

func (m *BasicMetrics) OnFlowEnter(ctx context.Context, run *Run, flow *Flow, entry EntryID) {
	m.flowsEntered.Add(1)
}

func (m *BasicMetrics) OnSweep(ctx context.Context, run *Run, flow *Flow, stats SweepStats) {
	m.sweeps.Add(1)
	m.eventsPolled.Add(int64(stats.Polled))
	m.eventsHandled.Add(int64(stats.Handled))
	if stats.Discarded {
		m.discards.Add(1)
	}
}

func (m *BasicMetrics) OnFlowError(ctx context.Context, run *Run, flow *Flow, err error, cleaned bool) {
	m.flowErrors.Add(1)
}

func (m *BasicMetrics) OnExecuteEnd(ctx context.Context, run *Run, result any, err error) {
	if err != nil {
		m.executionsFailed.Add(1)
		return
	}
	m.executionsCompleted.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.executionsStarted.Load()
	completed := m.executionsCompleted.Load()
	failed := m.executionsFailed.Load()

	return BasicMetricsSnapshot{
		ExecutionsStarted:   started,
		ExecutionsCompleted: completed,
		ExecutionsFailed:    failed,
		RunningExecutions:   started - completed - failed,
		FlowsEntered:        m.flowsEntered.Load(),
		FlowErrors:          m.flowErrors.Load(),
		Sweeps:              m.sweeps.Load(),
		EventsPolled:        m.eventsPolled.Load(),
		EventsHandled:       m.eventsHandled.Load(),
		Discards:            m.discards.Load(),
	}
}
