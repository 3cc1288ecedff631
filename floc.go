package floc

import (
	"context"
	"database/sql"

	"github.com/petrijr/floc/internal/engine"
	"github.com/petrijr/floc/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Engine               = api.Engine
	Flow                 = api.Flow
	Definition           = api.Definition
	EntryID              = api.EntryID
	EntryPoint           = api.EntryPoint
	Action               = api.Action
	CleanupFunc          = api.CleanupFunc
	TerminationFunc      = api.TerminationFunc
	Outcome              = api.Outcome
	OutcomeKind          = api.OutcomeKind
	Run                  = api.Run
	SweepStats           = api.SweepStats
	EventSource          = api.EventSource
	EventHandler         = api.EventHandler
	Discarder            = api.Discarder
	Restartable          = api.Restartable
	HandlerFunc          = api.HandlerFunc
	SourceFunc           = api.SourceFunc
	SliceSource          = api.SliceSource
	LineSource           = api.LineSource
	Dispatcher           = api.Dispatcher
	DispatchFunc         = api.DispatchFunc
	EventMatcher         = api.EventMatcher
	ErrorMatcher         = api.ErrorMatcher
	Record               = api.Record
	RecordType           = api.RecordType
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	DuplicateEntryPointError = api.DuplicateEntryPointError
	MissingEntryPointError   = api.MissingEntryPointError
)

// Re-export constructors and helpers.

var (
	NewFlow              = api.NewFlow
	Continue             = api.Continue
	SwitchTo             = api.SwitchTo
	Terminate            = api.Terminate
	NoArgs               = api.NoArgs
	MatchIs              = api.MatchIs
	MatchAll             = api.MatchAll
	NewSliceSource       = api.NewSliceSource
	NewLineSource        = api.NewLineSource
	NewDispatcher        = api.NewDispatcher
	FlowFromContext      = api.FlowFromContext
	RunFromContext       = api.RunFromContext
	WithRunID            = api.WithRunID
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export sentinel errors.

var (
	ErrNoEvent             = api.ErrNoEvent
	ErrDuplicateEntryPoint = api.ErrDuplicateEntryPoint
	ErrMissingEntryPoint   = api.ErrMissingEntryPoint
	ErrNilFlow             = api.ErrNilFlow
	ErrBadArgs             = api.ErrBadArgs
	ErrSourceClosed        = api.ErrSourceClosed
)

// Re-export outcome kinds.

const (
	OutcomeContinue  = api.OutcomeContinue
	OutcomeSwitch    = api.OutcomeSwitch
	OutcomeTerminate = api.OutcomeTerminate
)

// Generic helpers cannot be aliased; these forward to pkg/api.

// TypedEntry wraps a strongly-typed single-argument entry point.
func TypedEntry[A any](fn func(ctx context.Context, a A) (Outcome, error)) EntryPoint {
	return api.TypedEntry(fn)
}

// TypedEntry2 wraps a strongly-typed two-argument entry point.
func TypedEntry2[A, B any](fn func(ctx context.Context, a A, b B) (Outcome, error)) EntryPoint {
	return api.TypedEntry2(fn)
}

// HandleType returns an EventHandler for events of type T.
func HandleType[T any](fn func(ctx context.Context, ev T) (Outcome, error)) EventHandler {
	return api.HandleType(fn)
}

// MatchAs matches errors whose chain contains a value of type T.
func MatchAs[T error]() ErrorMatcher {
	return api.MatchAs[T]()
}

// NewChanSource returns an event source polling ch without blocking.
func NewChanSource[T any](ch <-chan T) *api.ChanSource[T] {
	return api.NewChanSource(ch)
}

// Engine constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

// NewEngine returns an Engine without observer or history.
func NewEngine() Engine {
	return engine.NewEngine()
}

// NewEngineWithObserver returns an Engine with the given Observer.
func NewEngineWithObserver(obs Observer) Engine {
	return engine.NewEngineWithObserver(obs)
}

// NewSQLiteEngine returns an Engine that appends execution history to a
// SQLite database.
func NewSQLiteEngine(db *sql.DB) (Engine, error) {
	return engine.NewSQLiteEngine(db, nil)
}

// NewSQLiteEngineWithObserver returns a SQLite-recording Engine with the given Observer.
func NewSQLiteEngineWithObserver(db *sql.DB, obs Observer) (Engine, error) {
	return engine.NewSQLiteEngine(db, obs)
}

// Convenience helpers that just forward to the underlying Engine.

// Execute runs flow from entry on eng.
func Execute(ctx context.Context, eng Engine, flow *Flow, entry EntryID, args ...any) (any, error) {
	return eng.Execute(ctx, flow, entry, args...)
}
