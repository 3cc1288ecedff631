package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

//
// Helpers
//

// testObserver is a simple Observer implementation used to verify fan-out behavior.
type testObserver struct {
	mu sync.Mutex

	starts, enters, sweeps, exits, errors, ends int

	lastRun   *Run
	lastFlow  *Flow
	lastEntry EntryID
	lastStats SweepStats
	lastOut   Outcome
	lastErr   error
	lastClean bool
	lastValue any
}

func (o *testObserver) OnExecuteStart(ctx context.Context, run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts++
	o.lastRun = run
}

func (o *testObserver) OnFlowEnter(ctx context.Context, run *Run, flow *Flow, entry EntryID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enters++
	o.lastFlow = flow
	o.lastEntry = entry
}

func (o *testObserver) OnSweep(ctx context.Context, run *Run, flow *Flow, stats SweepStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sweeps++
	o.lastStats = stats
}

func (o *testObserver) OnFlowExit(ctx context.Context, run *Run, flow *Flow, out Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exits++
	o.lastOut = out
}

func (o *testObserver) OnFlowError(ctx context.Context, run *Run, flow *Flow, err error, cleaned bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors++
	o.lastErr = err
	o.lastClean = cleaned
}

func (o *testObserver) OnExecuteEnd(ctx context.Context, run *Run, result any, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ends++
	o.lastValue = result
}

// recordingHandler is a minimal slog.Handler that just records log records.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Copy to avoid reuse issues.
	cpy := slog.Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		cpy.AddAttrs(a)
		return true
	})
	h.records = append(h.records, cpy)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Not needed for tests; just return itself.
	return h
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	// Not needed for tests.
	return h
}

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

func newTestRun() (*Run, *Flow) {
	f := NewFlow("flow-test")
	return &Run{ID: "run-123", Flow: f, Entry: "start"}, f
}

//
// NoopObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	ctx := context.Background()
	run, f := newTestRun()
	var o Observer = NoopObserver{}

	// These calls should simply not panic.
	o.OnExecuteStart(ctx, run)
	o.OnFlowEnter(ctx, run, f, "start")
	o.OnSweep(ctx, run, f, SweepStats{Sweep: 1})
	o.OnFlowExit(ctx, run, f, Terminate(nil))
	o.OnFlowError(ctx, run, f, errors.New("boom"), false)
	o.OnExecuteEnd(ctx, run, nil, nil)
}

//
// CompositeObserver
//

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver()
	if _, ok := o.(NoopObserver); !ok {
		t.Fatalf("expected NewCompositeObserver() to return NoopObserver, got %T", o)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &testObserver{}
	o := NewCompositeObserver(single, nil) // include a nil to ensure it is filtered

	if got, ok := o.(*testObserver); !ok || got != single {
		t.Fatalf("expected the single non-nil observer to be returned, got %T (%p)", o, o)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	ctx := context.Background()
	run, f := newTestRun()

	o1 := &testObserver{}
	o2 := &testObserver{}
	co, ok := NewCompositeObserver(o1, o2).(*CompositeObserver)
	if !ok {
		t.Fatalf("expected *CompositeObserver")
	}

	err := errors.New("handler failed")
	stats := SweepStats{Sweep: 3, Polled: 2, Handled: 1, Discarded: true}
	out := SwitchTo(f, "again")

	co.OnExecuteStart(ctx, run)
	co.OnFlowEnter(ctx, run, f, "start")
	co.OnSweep(ctx, run, f, stats)
	co.OnFlowExit(ctx, run, f, out)
	co.OnFlowError(ctx, run, f, err, true)
	co.OnExecuteEnd(ctx, run, "result", nil)

	for i, o := range []*testObserver{o1, o2} {
		if o.starts != 1 || o.enters != 1 || o.sweeps != 1 || o.exits != 1 || o.errors != 1 || o.ends != 1 {
			t.Fatalf("observer %d did not receive all calls: %+v", i+1, o)
		}
		if o.lastRun != run || o.lastFlow != f || o.lastEntry != "start" {
			t.Fatalf("observer %d run/flow mismatch", i+1)
		}
		if o.lastStats != stats {
			t.Fatalf("observer %d stats mismatch: %+v", i+1, o.lastStats)
		}
		if o.lastOut.Flow != f || o.lastOut.Entry != "again" {
			t.Fatalf("observer %d outcome mismatch: %v", i+1, o.lastOut)
		}
		if o.lastErr != err || !o.lastClean {
			t.Fatalf("observer %d error mismatch", i+1)
		}
		if o.lastValue != "result" {
			t.Fatalf("observer %d result mismatch: %v", i+1, o.lastValue)
		}
	}
}

//
// LoggingObserver
//

func TestNewLoggingObserver_NilLoggerUsesDefault(t *testing.T) {
	o := NewLoggingObserver(nil)
	lo, ok := o.(*LoggingObserver)
	if !ok {
		t.Fatalf("expected *LoggingObserver, got %T", o)
	}
	if lo.Logger != slog.Default() {
		t.Fatalf("expected default logger")
	}
}

func TestLoggingObserver_OnFlowEnter_EmitsInfoLog(t *testing.T) {
	ctx := context.Background()
	run, f := newTestRun()
	run.Transitions = 2

	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))
	o.OnFlowEnter(ctx, run, f, "start")

	if len(h.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(h.records))
	}
	rec := h.records[0]
	if rec.Level != slog.LevelInfo || rec.Message != "flow_enter" {
		t.Fatalf("unexpected record: %v %q", rec.Level, rec.Message)
	}
	attrs := attrsToMap(rec)
	if attrs["run_id"] != "run-123" || attrs["flow"] != "flow-test" || attrs["entry"] != "start" {
		t.Fatalf("unexpected attrs: %v", attrs)
	}
	if attrs["transitions"] != int64(2) {
		t.Fatalf("unexpected transitions attr: %#v", attrs["transitions"])
	}
}

func TestLoggingObserver_LevelsFollowOutcome(t *testing.T) {
	ctx := context.Background()
	run, f := newTestRun()

	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnSweep(ctx, run, f, SweepStats{Sweep: 1})
	o.OnFlowError(ctx, run, f, errors.New("boom"), false)
	o.OnExecuteEnd(ctx, run, "ok", nil)
	o.OnExecuteEnd(ctx, run, nil, errors.New("boom"))

	want := []struct {
		level slog.Level
		msg   string
	}{
		{slog.LevelDebug, "sweep"},
		{slog.LevelError, "flow_error"},
		{slog.LevelInfo, "execute_end"},
		{slog.LevelError, "execute_end"},
	}
	if len(h.records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(h.records))
	}
	for i, w := range want {
		if h.records[i].Level != w.level || h.records[i].Message != w.msg {
			t.Fatalf("record %d: got %v %q, want %v %q", i, h.records[i].Level, h.records[i].Message, w.level, w.msg)
		}
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_CountersAndSnapshot(t *testing.T) {
	ctx := context.Background()
	run, f := newTestRun()
	m := &BasicMetrics{}

	m.OnExecuteStart(ctx, run)
	m.OnExecuteStart(ctx, run)
	m.OnExecuteStart(ctx, run)
	m.OnFlowEnter(ctx, run, f, "start")
	m.OnSweep(ctx, run, f, SweepStats{Sweep: 1, Polled: 2, Handled: 1})
	m.OnSweep(ctx, run, f, SweepStats{Sweep: 2, Polled: 1, Handled: 1, Discarded: true})
	m.OnFlowError(ctx, run, f, errors.New("x"), false)
	m.OnExecuteEnd(ctx, run, nil, nil)
	m.OnExecuteEnd(ctx, run, nil, errors.New("x"))

	s := m.Snapshot()
	want := BasicMetricsSnapshot{
		ExecutionsStarted:   3,
		ExecutionsCompleted: 1,
		ExecutionsFailed:    1,
		RunningExecutions:   1,
		FlowsEntered:        1,
		FlowErrors:          1,
		Sweeps:              2,
		EventsPolled:        3,
		EventsHandled:       2,
		Discards:            1,
	}
	if s != want {
		t.Fatalf("unexpected snapshot:\n got  %+v\n want %+v", s, want)
	}
}
