package floc

import (
	"context"
	"fmt"

	"github.com/petrijr/floc/pkg/api"
)

// FlowBuilder provides a fluent API for configuring flows:
//
//	menu := floc.New("menu").
//	    Entry("show", floc.NoArgs(showMenu)).
//	    Source(floc.NewLineSource(os.Stdin)).
//	    HandleFunc(onLine).
//	    OnExit(closeMenu).
//	    MustBuild()
//
//	result, err := floc.Execute(ctx, engine, menu, "show")
//
// Flows that switch to each other can be created first with NewFlow and then
// configured with Apply.
type FlowBuilder struct {
	name  string
	steps []func(f *api.Flow) error
}

// New creates a new flow builder with the given name.
func New(name string) *FlowBuilder {
	return &FlowBuilder{name: name}
}

// Name returns the flow name.
func (b *FlowBuilder) Name() string {
	return b.name
}

func (b *FlowBuilder) add(step func(f *api.Flow) error) *FlowBuilder {
	b.steps = append(b.steps, step)
	return b
}

// Entry registers an entry point. Duplicates are reported by Build.
func (b *FlowBuilder) Entry(id EntryID, fn EntryPoint) *FlowBuilder {
	if id == "" {
		panic("floc: entry point id must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("floc: entry point %q has nil function", id))
	}
	return b.add(func(f *api.Flow) error {
		return f.RegisterEntryPoint(id, fn)
	})
}

// Source appends an event source.
func (b *FlowBuilder) Source(src EventSource) *FlowBuilder {
	if src == nil {
		panic("floc: event source must not be nil")
	}
	return b.add(func(f *api.Flow) error {
		f.RegisterEventSource(src)
		return nil
	})
}

// Handler appends an event handler.
func (b *FlowBuilder) Handler(h EventHandler) *FlowBuilder {
	if h == nil {
		panic("floc: event handler must not be nil")
	}
	return b.add(func(f *api.Flow) error {
		f.RegisterEventHandler(h)
		return nil
	})
}

// HandleFunc appends a handler that claims every event it sees.
func (b *FlowBuilder) HandleFunc(fn api.DispatchFunc) *FlowBuilder {
	if fn == nil {
		panic("floc: handler function must not be nil")
	}
	return b.Handler(api.HandlerFunc(func(ctx context.Context, ev any) (bool, Outcome, error) {
		out, err := fn(ctx, ev)
		return true, out, err
	}))
}

// Before appends a pre-action, run at the start of every sweep.
func (b *FlowBuilder) Before(fn Action) *FlowBuilder {
	if fn == nil {
		panic("floc: pre-action must not be nil")
	}
	return b.add(func(f *api.Flow) error {
		f.RegisterPreAction(fn)
		return nil
	})
}

// After appends a post-action run at the end of every sweep.
func (b *FlowBuilder) After(fn Action) *FlowBuilder {
	return b.post(fn, false)
}

// AfterEvent appends a post-action run only after sweeps that polled at
// least one event.
func (b *FlowBuilder) AfterEvent(fn Action) *FlowBuilder {
	return b.post(fn, true)
}

func (b *FlowBuilder) post(fn Action, mustHaveEvent bool) *FlowBuilder {
	if fn == nil {
		panic("floc: post-action must not be nil")
	}
	return b.add(func(f *api.Flow) error {
		f.RegisterPostAction(fn, mustHaveEvent)
		return nil
	})
}

// OnError appends an exception action. The first action whose matcher
// accepts an error runs; the error still propagates.
func (b *FlowBuilder) OnError(match ErrorMatcher, fn CleanupFunc) *FlowBuilder {
	if match == nil || fn == nil {
		panic("floc: exception action needs a matcher and a cleanup function")
	}
	return b.add(func(f *api.Flow) error {
		f.RegisterExceptionAction(match, fn)
		return nil
	})
}

// OnExit appends a termination action, run whenever the flow is left through
// SwitchTo or Terminate.
func (b *FlowBuilder) OnExit(fn TerminationFunc) *FlowBuilder {
	if fn == nil {
		panic("floc: termination action must not be nil")
	}
	return b.add(func(f *api.Flow) error {
		f.RegisterTerminationAction(fn)
		return nil
	})
}

// Apply registers everything configured so far on f.
func (b *FlowBuilder) Apply(f *Flow) error {
	for _, step := range b.steps {
		if err := step(f); err != nil {
			return err
		}
	}
	return nil
}

// Build creates a new flow with the builder's name and configuration.
func (b *FlowBuilder) Build() (*Flow, error) {
	f := api.NewFlow(b.name)
	if err := b.Apply(f); err != nil {
		return nil, err
	}
	return f, nil
}

// MustBuild is like Build but panics on error.
// Useful for initialization in main().
func (b *FlowBuilder) MustBuild() *Flow {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}
