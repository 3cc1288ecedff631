package engine

import (
	"context"
	"errors"

	"github.com/petrijr/floc/pkg/api"
)

// flowRun is one activation of a flow: entry point plus sweeps until a
// control signal or error leaves it. def is frozen when the run starts.
type flowRun struct {
	e    *engineImpl
	run  *api.Run
	flow *api.Flow
	def  api.Definition
}

func (e *engineImpl) runFlow(ctx context.Context, run *api.Run, flow *api.Flow, entry api.EntryID, args []any) (api.Outcome, error) {
	r := &flowRun{e: e, run: run, flow: flow, def: flow.Definition()}
	ctx = api.WithFlow(ctx, flow)

	var fn api.EntryPoint
	if len(r.def.EntryPoints) > 0 {
		var ok bool
		fn, ok = r.def.EntryPoints[entry]
		if !ok {
			// Nothing ran yet, so there is nothing to clean up.
			err := &api.MissingEntryPointError{Flow: r.def.Name, Entry: entry}
			e.observer.OnFlowError(ctx, run, flow, err, false)
			e.record(ctx, run, api.RecordFlowFailed, flow, entry, err.Error())
			return api.Outcome{}, err
		}
	}

	e.observer.OnFlowEnter(ctx, run, flow, entry)
	e.record(ctx, run, api.RecordFlowEntered, flow, entry, "")

	if fn != nil {
		out, err := fn(ctx, args...)
		if done, out, err := r.settle(ctx, out, err); done {
			return out, err
		}
	}

	for n := 1; ; n++ {
		if done, out, err := r.sweep(ctx, n); done {
			return out, err
		}
	}
}

// sweep runs pre-actions, polls sources, honours a pending discard and runs
// post-actions. The bool is true when the flow must be left.
func (r *flowRun) sweep(ctx context.Context, n int) (bool, api.Outcome, error) {
	stats := api.SweepStats{Sweep: n}

	for _, pre := range r.def.PreActions {
		out, err := pre(ctx)
		if done, out, err := r.settle(ctx, out, err); done {
			return true, out, err
		}
	}

	for _, src := range r.def.Sources {
		if r.flow.DiscardRequested() {
			break
		}
		ev, err := src.NextEvent(ctx)
		if errors.Is(err, api.ErrNoEvent) {
			continue
		}
		if err != nil {
			return true, api.Outcome{}, r.fail(ctx, err)
		}
		stats.Polled++

		for _, h := range r.def.Handlers {
			handled, out, err := h.HandleEvent(ctx, ev)
			if handled {
				stats.Handled++
			}
			if done, out, err := r.settle(ctx, out, err); done {
				return true, out, err
			}
		}
	}

	if r.flow.TakeDiscard() {
		stats.Discarded = true
		for _, src := range r.def.Sources {
			d, ok := src.(api.Discarder)
			if !ok {
				continue
			}
			if err := d.DiscardEvents(ctx); err != nil {
				return true, api.Outcome{}, r.fail(ctx, err)
			}
		}
	}

	for _, post := range r.def.PostActions {
		if post.MustHaveEvent && stats.Polled == 0 {
			continue
		}
		out, err := post.Fn(ctx)
		if done, out, err := r.settle(ctx, out, err); done {
			return true, out, err
		}
	}

	r.e.observer.OnSweep(ctx, r.run, r.flow, stats)
	return false, api.Continue(), nil
}

// settle decides what a callback result means for the flow. An error runs the
// matching cleanup, a control signal runs the termination actions, and
// Continue keeps the flow going.
func (r *flowRun) settle(ctx context.Context, out api.Outcome, err error) (bool, api.Outcome, error) {
	if err != nil {
		return true, api.Outcome{}, r.fail(ctx, err)
	}
	if !out.IsSignal() {
		return false, out, nil
	}
	if out.Kind == api.OutcomeSwitch && out.Flow == nil {
		return true, api.Outcome{}, r.fail(ctx, api.ErrNilFlow)
	}
	r.leave(ctx, out)
	return true, out, nil
}

// fail runs the first exception action matching err and returns err unchanged.
func (r *flowRun) fail(ctx context.Context, err error) error {
	cleanup, ok := r.def.Cleanup(err)
	if ok {
		cleanup(ctx, err)
	}
	r.e.observer.OnFlowError(ctx, r.run, r.flow, err, ok)
	r.e.record(ctx, r.run, api.RecordFlowFailed, r.flow, r.run.Entry, err.Error())
	return err
}

func (r *flowRun) leave(ctx context.Context, out api.Outcome) {
	for _, fn := range r.def.TerminationActions {
		fn(ctx)
	}
	r.e.observer.OnFlowExit(ctx, r.run, r.flow, out)
	r.e.record(ctx, r.run, api.RecordFlowExited, r.flow, r.run.Entry, out.String())
}
