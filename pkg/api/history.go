package api

import (
	"context"
	"time"
)

// RecordType identifies an execution history record.
type RecordType string

const (
	RecordRunStarted   RecordType = "run.started"
	RecordRunCompleted RecordType = "run.completed"
	RecordRunFailed    RecordType = "run.failed"

	RecordFlowEntered RecordType = "flow.entered"
	RecordFlowExited  RecordType = "flow.exited"
	RecordFlowFailed  RecordType = "flow.failed"
)

// Record is a minimal append-only history entry for audit/debugging.
// History is not resumable state: flows cannot be restored from it.
type Record struct {
	RunID string
	At    time.Time
	Type  RecordType

	Flow  string
	Entry EntryID

	// Small, human-oriented details (outcome, error string, result).
	Detail string
}

// HistoryReader allows reading a run's history.
type HistoryReader interface {
	// List returns all records of a run in the order they were appended.
	List(ctx context.Context, runID string) ([]Record, error)
}
