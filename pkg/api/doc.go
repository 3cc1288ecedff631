// Package api contains the core building blocks used by the floc engine. It
// provides the low-level primitives for defining flows, feeding them events,
// and observing engine behavior.
//
// Most users interact with the higher-level floc package, which re-exports
// selected types and helpers from this package. The api package is intended
// for advanced use cases, custom event sources, or contributors extending the
// engine itself.
//
// # Concepts
//
// The api package centers around a small set of concepts:
//
//   - Flows and their registries
//   - Outcomes (continue, switch, terminate)
//   - Event sources and handlers
//   - Observability and history
//
// # Flows
//
// A Flow owns named entry points, an ordered list of event sources, an ordered
// list of event handlers, pre- and post-actions run around every sweep,
// exception actions and termination actions. Flows are configured through the
// Register* methods before they are handed to an Engine. A running flow works
// from the Definition snapshot taken when its run began.
//
// # Outcomes
//
// Entry points, actions and handlers return an Outcome. Continue keeps the
// flow sweeping. SwitchTo hands control to another flow (or the same one) at a
// named entry point. Terminate stops the engine and yields a value. Both
// signals run the flow's termination actions before control leaves it.
//
// Errors are not signals. A returned error runs the first exception action
// whose ErrorMatcher accepts it and is then returned from Execute unchanged.
//
// # Event Sources and Handlers
//
// An EventSource delivers at most one event per poll and returns ErrNoEvent
// when it has nothing to offer. Sources may also implement Discarder, used
// when a flow calls DiscardEvents, and Restartable.
//
// SliceSource, ChanSource and LineSource cover in-memory queues, goroutine
// producers and line-oriented input. Dispatcher and HandleType build handlers
// from matching rules.
//
// # Observability
//
// The Observer interface receives run, flow and sweep callbacks. The package
// ships LoggingObserver (log/slog), BasicMetrics and CompositeObserver.
// Engines can also append Records to a history store for later inspection.
package api
