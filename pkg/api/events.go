package api

import "context"

// EventSource supplies events to a flow. It is polled once per sweep.
//
// NextEvent returns ErrNoEvent when nothing is pending. Any other error is
// treated like an error returned by a handler.
type EventSource interface {
	NextEvent(ctx context.Context) (any, error)
}

// Discarder is implemented by sources that buffer events and can drop them
// when a flow calls DiscardEvents.
type Discarder interface {
	DiscardEvents(ctx context.Context) error
}

// Restartable is implemented by sources that can be paused and resumed.
type Restartable interface {
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
}

// EventHandler receives every event polled by the flow it is registered on.
//
// handled reports whether the handler considered itself the consumer of ev.
// A non-Continue outcome halts the sweep and leaves the flow.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev any) (handled bool, out Outcome, err error)
}

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc func(ctx context.Context, ev any) (bool, Outcome, error)

func (f HandlerFunc) HandleEvent(ctx context.Context, ev any) (bool, Outcome, error) {
	return f(ctx, ev)
}

// SourceFunc adapts a plain function to EventSource.
type SourceFunc func(ctx context.Context) (any, error)

func (f SourceFunc) NextEvent(ctx context.Context) (any, error) {
	return f(ctx)
}
