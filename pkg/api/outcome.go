package api

import "fmt"

// OutcomeKind tells the engine what to do after a callback returns.
type OutcomeKind int

const (
	// OutcomeContinue keeps the current flow running.
	OutcomeContinue OutcomeKind = iota
	// OutcomeSwitch hands control to another flow (or the same one) at a
	// named entry point.
	OutcomeSwitch
	// OutcomeTerminate stops the engine and yields Value to the caller of
	// Execute.
	OutcomeTerminate
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContinue:
		return "continue"
	case OutcomeSwitch:
		return "switch"
	case OutcomeTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is returned by entry points, actions and handlers.
//
// The zero value is Continue. Anything else is a control signal: it halts the
// running sweep, runs the flow's termination actions and is handed to the
// engine.
type Outcome struct {
	Kind OutcomeKind

	// Switch target (OutcomeSwitch only).
	Flow  *Flow
	Entry EntryID
	Args  []any

	// Result of the whole execution (OutcomeTerminate only).
	Value any
}

// Continue returns the outcome that keeps the current flow running.
func Continue() Outcome {
	return Outcome{}
}

// SwitchTo requests that the engine run flow starting at entry, passing args
// to the entry point. A flow may switch to itself.
func SwitchTo(flow *Flow, entry EntryID, args ...any) Outcome {
	return Outcome{
		Kind:  OutcomeSwitch,
		Flow:  flow,
		Entry: entry,
		Args:  args,
	}
}

// Terminate requests that the engine stop and return value from Execute.
func Terminate(value any) Outcome {
	return Outcome{
		Kind:  OutcomeTerminate,
		Value: value,
	}
}

// IsSignal reports whether o transfers control away from the running flow.
func (o Outcome) IsSignal() bool {
	return o.Kind != OutcomeContinue
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSwitch:
		name := "<nil>"
		if o.Flow != nil {
			name = o.Flow.Name()
		}
		return fmt.Sprintf("switch to %s.%s", name, o.Entry)
	case OutcomeTerminate:
		return fmt.Sprintf("terminate with %v", o.Value)
	default:
		return o.Kind.String()
	}
}
