// Package floc provides a small, embeddable control-flow engine for Go.
//
// Floc lets an interactive or state-driven program be split into independent
// flows. Each flow owns its entry points, event sources, event handlers and
// lifecycle hooks. Instead of nesting calls or keeping hand-rolled state
// variables, the program hands control to an Engine that runs one flow at a
// time and switches to another only when the running flow asks for it.
//
// # Core Concepts
//
//  1. Flow
//  2. Outcome
//  3. Engine
//  4. FlowBuilder
//  5. LocalRunner
//
// # Flow
//
// A flow is run from a named entry point. After the entry point returns, the
// flow sweeps until a control signal is returned. One sweep:
//
//   - runs every pre-action
//   - polls every event source in registration order and hands each event to
//     every handler in registration order
//   - drops buffered events on all sources if DiscardEvents was requested
//   - runs post-actions, skipping those registered with AfterEvent when no
//     event was polled
//
// A flow without entry points starts sweeping immediately.
//
// # Outcome
//
// Callbacks return Continue, SwitchTo(flow, entry, args...) or
// Terminate(value). Signals run the flow's termination actions, then the
// engine follows them. Errors run the first matching exception action and
// are returned from Execute unchanged; the engine never recovers them.
//
// # Engine
//
// The Engine is a trampoline: it keeps the current flow, entry point and
// arguments, runs the flow, and rebinds them on every SwitchTo. It is
// synchronous and runs on the caller's goroutine.
//
// Engines can report to an Observer and append execution history to:
//
//   - In-memory (best for tests and LocalRunner)
//   - SQLite (NewSQLiteEngine, NewSQLiteBundle)
//
// # FlowBuilder
//
// FlowBuilder provides the fluent API used to configure flows:
//
//	menu := floc.New("menu").
//	    Entry("show", floc.NoArgs(show)).
//	    Source(floc.NewLineSource(os.Stdin)).
//	    HandleFunc(onLine).
//	    AfterEvent(prompt).
//	    OnExit(cleanup).
//	    MustBuild()
//
// Flows that refer to each other are created with NewFlow first and then
// configured with FlowBuilder.Apply.
//
// # LocalRunner
//
// LocalRunner bundles an engine with in-memory history and BasicMetrics. It is
// not durable, but it is the most convenient way to run and debug flows during
// development.
//
// For examples, see the /examples directory and cmd/flocmenu.
package floc
