package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/petrijr/floc"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	History string
}

// HistoryEntry is the JSON form of one history record.
type HistoryEntry struct {
	At     time.Time `json:"at"`
	Type   string    `json:"type"`
	Flow   string    `json:"flow,omitempty"`
	Entry  string    `json:"entry,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "Show recorded runs",
		Long: `Show runs recorded with "flocmenu run --history".

Without RUN_ID, lists the IDs of all recorded runs, oldest first.
With RUN_ID, prints that run's records in order.

Examples:
  flocmenu history --history ./floc.db
  flocmenu history --history ./floc.db 0190c6f2-...
  flocmenu history --history ./floc.db 0190c6f2-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(cmd.Context(), opts, cmd, runID)
		},
	}

	cmd.Flags().StringVar(&opts.History, "history", "", "path to the SQLite history database (required)")
	_ = cmd.MarkFlagRequired("history")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command, runID string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := sql.Open("sqlite", opts.History)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer db.Close()

	bundle, err := floc.NewSQLiteBundle(db, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	out := cmd.OutOrStdout()

	if runID == "" {
		runs, err := bundle.Runs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if opts.Format == "json" {
			if runs == nil {
				runs = []string{}
			}
			return writeJSON(out, runs)
		}
		for _, id := range runs {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	recs, err := bundle.History(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	if len(recs) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no records for run %s", runID))
	}

	if opts.Format == "json" {
		entries := make([]HistoryEntry, 0, len(recs))
		for _, r := range recs {
			entries = append(entries, HistoryEntry{
				At:     r.At,
				Type:   string(r.Type),
				Flow:   r.Flow,
				Entry:  string(r.Entry),
				Detail: r.Detail,
			})
		}
		return writeJSON(out, entries)
	}

	for _, r := range recs {
		where := r.Flow
		if r.Entry != "" {
			where += "." + string(r.Entry)
		}
		line := fmt.Sprintf("%-14s %-28s %s", r.Type, where, r.Detail)
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	return nil
}
