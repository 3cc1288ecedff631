package api

import "context"

type flowKey struct{}

type runKey struct{}

type runIDKey struct{}

// WithFlow returns a context carrying the running flow.
func WithFlow(ctx context.Context, f *Flow) context.Context {
	return context.WithValue(ctx, flowKey{}, f)
}

// FlowFromContext returns the flow the engine is running, or nil outside
// of a run. Handlers use it to call DiscardEvents or to switch to
// themselves.
func FlowFromContext(ctx context.Context) *Flow {
	f, _ := ctx.Value(flowKey{}).(*Flow)
	return f
}

// WithRun returns a context carrying the current execution run.
func WithRun(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, runKey{}, r)
}

// RunFromContext returns the current execution run, or nil.
func RunFromContext(ctx context.Context) *Run {
	r, _ := ctx.Value(runKey{}).(*Run)
	return r
}

// WithRunID asks the engine to use id for the next Execute called with the
// returned context instead of generating one.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns an ID set with WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}
