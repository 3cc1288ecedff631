package api

import "context"

// EventMatcher selects the events a dispatch rule applies to.
type EventMatcher func(ev any) bool

// DispatchFunc handles an event selected by an EventMatcher.
type DispatchFunc func(ctx context.Context, ev any) (Outcome, error)

type dispatchRule struct {
	match EventMatcher
	fn    DispatchFunc
}

// Dispatcher is an EventHandler built from (matcher, func) rules. Every rule
// whose matcher accepts an event runs, in registration order. The event
// counts as handled when at least one rule matched.
type Dispatcher struct {
	rules []dispatchRule
}

var _ EventHandler = (*Dispatcher)(nil)

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// On adds a rule and returns d for chaining.
func (d *Dispatcher) On(match EventMatcher, fn DispatchFunc) *Dispatcher {
	d.rules = append(d.rules, dispatchRule{match: match, fn: fn})
	return d
}

// OnEqual adds a rule matching events equal to want. want must be of a
// comparable type.
func (d *Dispatcher) OnEqual(want any, fn DispatchFunc) *Dispatcher {
	return d.On(func(ev any) bool { return ev == want }, fn)
}

func (d *Dispatcher) HandleEvent(ctx context.Context, ev any) (bool, Outcome, error) {
	handled := false
	for _, r := range d.rules {
		if !r.match(ev) {
			continue
		}
		handled = true
		out, err := r.fn(ctx, ev)
		if err != nil || out.IsSignal() {
			return handled, out, err
		}
	}
	return handled, Continue(), nil
}

// HandleType returns an EventHandler that only handles events of type T.
// Events of other types are reported as not handled.
func HandleType[T any](fn func(ctx context.Context, ev T) (Outcome, error)) EventHandler {
	return HandlerFunc(func(ctx context.Context, ev any) (bool, Outcome, error) {
		v, ok := ev.(T)
		if !ok {
			return false, Continue(), nil
		}
		out, err := fn(ctx, v)
		return true, out, err
	})
}
