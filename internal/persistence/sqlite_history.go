package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/petrijr/floc/pkg/api"
)

// SQLiteHistoryStore stores execution history records in SQLite.
type SQLiteHistoryStore struct {
	db *sql.DB
}

var _ HistoryStore = (*SQLiteHistoryStore)(nil)

// NewSQLiteHistoryStore creates the history table if needed.
func NewSQLiteHistoryStore(db *sql.DB) (*SQLiteHistoryStore, error) {
	s := &SQLiteHistoryStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteHistoryStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS floc_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			flow TEXT NOT NULL DEFAULT '',
			entry TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_floc_history_run_id ON floc_history(run_id, id);
	`)
	return err
}

func (s *SQLiteHistoryStore) Append(ctx context.Context, rec api.Record) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO floc_history (run_id, at, type, flow, entry, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		at.UnixNano(),
		string(rec.Type),
		rec.Flow,
		string(rec.Entry),
		rec.Detail,
	)
	return err
}

func (s *SQLiteHistoryStore) List(ctx context.Context, runID string) ([]api.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, at, type, flow, entry, detail
		FROM floc_history
		WHERE run_id = ?
		ORDER BY id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Record
	for rows.Next() {
		var (
			id     string
			atN    int64
			typ    string
			flow   string
			entry  string
			detail string
		)
		if err := rows.Scan(&id, &atN, &typ, &flow, &entry, &detail); err != nil {
			return nil, err
		}
		out = append(out, api.Record{
			RunID:  id,
			At:     time.Unix(0, atN),
			Type:   api.RecordType(typ),
			Flow:   flow,
			Entry:  api.EntryID(entry),
			Detail: detail,
		})
	}
	return out, rows.Err()
}

// Runs returns the distinct run IDs in the store, oldest first.
func (s *SQLiteHistoryStore) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id FROM floc_history
		GROUP BY run_id
		ORDER BY MIN(id) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
