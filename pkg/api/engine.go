package api

import (
	"context"
	"time"
)

// Engine drives flows. It runs one flow at a time and switches only when a
// flow returns a SwitchTo outcome.
type Engine interface {
	// Execute runs flow from entry with args, follows every SwitchTo, and
	// returns the value carried by the first Terminate outcome.
	//
	// Errors returned by flows are passed through unchanged.
	Execute(ctx context.Context, flow *Flow, entry EntryID, args ...any) (any, error)
}

// Run describes one call to Engine.Execute.
type Run struct {
	ID        string
	StartedAt time.Time

	// Transitions counts SwitchTo outcomes followed so far.
	Transitions int

	// Flow and Entry identify the flow currently being run.
	Flow  *Flow
	Entry EntryID
}

// SweepStats summarises one sweep of a flow.
type SweepStats struct {
	// Sweep is the 1-based index of the sweep within the current run of
	// the flow.
	Sweep int

	// Polled counts events delivered by sources.
	Polled int

	// Handled counts handler calls that reported handled=true.
	Handled int

	// Discarded is set when the sweep ended with a discard.
	Discarded bool
}
