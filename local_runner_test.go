package floc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestLocalRunner_RecordsHistoryAndMetrics verifies that LocalRunner keeps
// per-run history and counts sweeps through its BasicMetrics.
func TestLocalRunner_RecordsHistoryAndMetrics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	runner := NewLocalRunner()

	counter := New("counter").
		Entry("count", TypedEntry(func(ctx context.Context, limit int) (Outcome, error) {
			return Continue(), nil
		})).
		Source(NewSliceSource(1, 2, 3)).
		Handler(HandleType(func(ctx context.Context, n int) (Outcome, error) {
			if n == 3 {
				return Terminate(n * 10), nil
			}
			return Continue(), nil
		})).
		MustBuild()

	runID, result, err := runner.Execute(ctx, counter, "count", 3)
	require.NoError(t, err)
	require.Equal(t, 30, result)

	_, err = uuid.Parse(runID)
	require.NoError(t, err, "run IDs are UUIDs")

	runs, err := runner.Runs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{runID}, runs)

	recs, err := runner.History(ctx, runID)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	require.Equal(t, RecordType("run.started"), recs[0].Type)
	require.Equal(t, RecordType("run.completed"), recs[3].Type)
	require.Equal(t, "30", recs[3].Detail)

	snap := runner.Metrics.Snapshot()
	require.Equal(t, int64(1), snap.ExecutionsStarted)
	require.Equal(t, int64(1), snap.ExecutionsCompleted)
	require.Equal(t, int64(2), snap.Sweeps)
	require.Equal(t, int64(2), snap.EventsPolled)
}

func TestLocalRunner_ForwardsToExtraObservers(t *testing.T) {
	t.Parallel()

	extra := &BasicMetrics{}
	runner := NewLocalRunner(extra)

	flow := New("once").
		Before(func(ctx context.Context) (Outcome, error) {
			return Terminate(nil), nil
		}).
		MustBuild()

	_, _, err := runner.Execute(context.Background(), flow, "")
	require.NoError(t, err)

	require.Equal(t, int64(1), extra.Snapshot().ExecutionsCompleted)
	require.Equal(t, int64(1), runner.Metrics.Snapshot().ExecutionsCompleted)
}
