package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/petrijr/floc/pkg/api"
)

type listingStore interface {
	HistoryStore
	RunLister
}

func newTestSQLiteHistory(t *testing.T) *SQLiteHistoryStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})

	store, err := NewSQLiteHistoryStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteHistoryStore failed: %v", err)
	}

	return store
}

func historyStores(t *testing.T) map[string]listingStore {
	return map[string]listingStore{
		"memory": NewInMemoryHistoryStore(),
		"sqlite": newTestSQLiteHistory(t),
	}
}

func TestHistoryStore_AppendAndList(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			at := time.Unix(1700000000, 123)

			recs := []api.Record{
				{RunID: "r1", At: at, Type: api.RecordRunStarted, Flow: "menu", Entry: "show"},
				{RunID: "r2", At: at, Type: api.RecordRunStarted, Flow: "other"},
				{RunID: "r1", At: at, Type: api.RecordFlowEntered, Flow: "menu", Entry: "show"},
				{RunID: "r1", At: at, Type: api.RecordRunCompleted, Flow: "menu", Entry: "show", Detail: "bye"},
			}
			for _, r := range recs {
				require.NoError(t, store.Append(ctx, r))
			}

			got, err := store.List(ctx, "r1")
			require.NoError(t, err)
			require.Len(t, got, 3)
			require.Equal(t, api.RecordRunStarted, got[0].Type)
			require.Equal(t, api.RecordFlowEntered, got[1].Type)
			require.Equal(t, api.RecordRunCompleted, got[2].Type)
			require.Equal(t, "bye", got[2].Detail)
			require.Equal(t, api.EntryID("show"), got[2].Entry)
			require.True(t, at.Equal(got[0].At))

			runs, err := store.Runs(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"r1", "r2"}, runs)

			missing, err := store.List(ctx, "nope")
			require.NoError(t, err)
			require.Empty(t, missing)
		})
	}
}

func TestHistoryStore_StampsMissingTime(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Append(ctx, api.Record{RunID: "r", Type: api.RecordRunStarted}))

			got, err := store.List(ctx, "r")
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.False(t, got[0].At.IsZero())
		})
	}
}

func TestInMemoryHistoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryHistoryStore()
	require.NoError(t, store.Append(ctx, api.Record{RunID: "r", Type: api.RecordRunStarted}))

	got, err := store.List(ctx, "r")
	require.NoError(t, err)
	got[0].Detail = "mutated"

	again, err := store.List(ctx, "r")
	require.NoError(t, err)
	require.Empty(t, again[0].Detail)
}

func TestNoopHistoryStore(t *testing.T) {
	ctx := context.Background()
	var store NoopHistoryStore
	require.NoError(t, store.Append(ctx, api.Record{RunID: "r"}))

	got, err := store.List(ctx, "r")
	require.NoError(t, err)
	require.Empty(t, got)
}
