package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// EntryID names an entry point within a flow.
type EntryID string

// EntryPoint begins execution of a flow. args are whatever the caller of
// Execute or SwitchTo supplied.
type EntryPoint func(ctx context.Context, args ...any) (Outcome, error)

// Action is a pre- or post-sweep action.
type Action func(ctx context.Context) (Outcome, error)

// CleanupFunc is an exception action. It observes err but cannot suppress it.
type CleanupFunc func(ctx context.Context, err error)

// TerminationFunc runs once when a flow is left through a control signal.
type TerminationFunc func(ctx context.Context)

// PostAction is an action run after event dispatch. When MustHaveEvent is
// set it only runs in sweeps that polled at least one event.
type PostAction struct {
	Fn            Action
	MustHaveEvent bool
}

// ExceptionAction pairs an error matcher with its cleanup.
type ExceptionAction struct {
	Match   ErrorMatcher
	Cleanup CleanupFunc
}

// Definition is an immutable snapshot of a flow's registries. The engine
// takes one at the start of every run.
type Definition struct {
	Name               string
	EntryPoints        map[EntryID]EntryPoint
	Sources            []EventSource
	Handlers           []EventHandler
	PreActions         []Action
	PostActions        []PostAction
	ExceptionActions   []ExceptionAction
	TerminationActions []TerminationFunc
}

// Cleanup returns the first registered cleanup whose matcher accepts err.
func (d Definition) Cleanup(err error) (CleanupFunc, bool) {
	for _, ea := range d.ExceptionActions {
		if ea.Match(err) {
			return ea.Cleanup, true
		}
	}
	return nil, false
}

// Flow is a unit of program control: named entry points, event sources and
// handlers, and lifecycle hooks. Flows are configured with the Register*
// methods and then handed to an Engine.
//
// Registration is safe at any time, but a running flow works from the
// snapshot taken when its run began; changes apply from the next run.
type Flow struct {
	name string

	mu                 sync.Mutex
	entryPoints        map[EntryID]EntryPoint
	sources            []EventSource
	handlers           []EventHandler
	preActions         []Action
	postActions        []PostAction
	exceptionActions   []ExceptionAction
	terminationActions []TerminationFunc

	discard atomic.Bool
}

// NewFlow creates a flow with empty registries.
func NewFlow(name string) *Flow {
	return &Flow{
		name:        name,
		entryPoints: make(map[EntryID]EntryPoint),
	}
}

// Name returns the flow's name.
func (f *Flow) Name() string {
	return f.name
}

func (f *Flow) String() string {
	return "flow " + f.name
}

// RegisterEntryPoint binds fn to id. It fails with a
// *DuplicateEntryPointError if id is already bound.
func (f *Flow) RegisterEntryPoint(id EntryID, fn EntryPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.entryPoints[id]; exists {
		return &DuplicateEntryPointError{Flow: f.name, Entry: id}
	}
	f.entryPoints[id] = fn
	return nil
}

// RedefineEntryPoint binds fn to id, replacing any previous binding.
func (f *Flow) RedefineEntryPoint(id EntryID, fn EntryPoint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entryPoints[id] = fn
}

// DeleteEntryPoint removes id. Unknown identifiers are ignored.
func (f *Flow) DeleteEntryPoint(id EntryID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entryPoints, id)
}

// EntryPoints returns the registered identifiers in sorted order.
func (f *Flow) EntryPoints() []EntryID {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]EntryID, 0, len(f.entryPoints))
	for id := range f.entryPoints {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RegisterEventSource appends src to the poll order.
func (f *Flow) RegisterEventSource(src EventSource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, src)
}

// RegisterEventHandler appends h to the dispatch order.
func (f *Flow) RegisterEventHandler(h EventHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, h)
}

// RegisterPreAction appends an action run at the start of every sweep.
func (f *Flow) RegisterPreAction(fn Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.preActions = append(f.preActions, fn)
}

// RegisterPostAction appends an action run at the end of every sweep, or
// only of sweeps that polled an event when mustHaveEvent is set.
func (f *Flow) RegisterPostAction(fn Action, mustHaveEvent bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postActions = append(f.postActions, PostAction{Fn: fn, MustHaveEvent: mustHaveEvent})
}

// RegisterExceptionAction appends a cleanup for errors accepted by match.
// Only the first matching cleanup runs for a given error.
func (f *Flow) RegisterExceptionAction(match ErrorMatcher, cleanup CleanupFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exceptionActions = append(f.exceptionActions, ExceptionAction{Match: match, Cleanup: cleanup})
}

// RegisterTerminationAction appends an action run when the flow is left
// through SwitchTo or Terminate.
func (f *Flow) RegisterTerminationAction(fn TerminationFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminationActions = append(f.terminationActions, fn)
}

// DiscardEvents asks the running sweep to stop polling after the current
// source and to drop buffered events on every source once the sweep's
// polling phase ends.
func (f *Flow) DiscardEvents() {
	f.discard.Store(true)
}

// TakeDiscard reports whether a discard was requested and clears the request.
func (f *Flow) TakeDiscard() bool {
	return f.discard.Swap(false)
}

// DiscardRequested reports whether a discard is pending.
func (f *Flow) DiscardRequested() bool {
	return f.discard.Load()
}

// Definition snapshots the flow's registries.
func (f *Flow) Definition() Definition {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := make(map[EntryID]EntryPoint, len(f.entryPoints))
	for id, fn := range f.entryPoints {
		entries[id] = fn
	}

	return Definition{
		Name:               f.name,
		EntryPoints:        entries,
		Sources:            append([]EventSource(nil), f.sources...),
		Handlers:           append([]EventHandler(nil), f.handlers...),
		PreActions:         append([]Action(nil), f.preActions...),
		PostActions:        append([]PostAction(nil), f.postActions...),
		ExceptionActions:   append([]ExceptionAction(nil), f.exceptionActions...),
		TerminationActions: append([]TerminationFunc(nil), f.terminationActions...),
	}
}

// StopSources calls Stop on every registered source that supports it, in
// registration order. All sources are visited; errors are joined.
func (f *Flow) StopSources(ctx context.Context) error {
	var errs []error
	for _, src := range f.Definition().Sources {
		if r, ok := src.(Restartable); ok {
			if err := r.Stop(ctx); err != nil {
				errs = append(errs, fmt.Errorf("stop source: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}

// RestartSources undoes StopSources.
func (f *Flow) RestartSources(ctx context.Context) error {
	var errs []error
	for _, src := range f.Definition().Sources {
		if r, ok := src.(Restartable); ok {
			if err := r.Restart(ctx); err != nil {
				errs = append(errs, fmt.Errorf("restart source: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
