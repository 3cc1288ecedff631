package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/petrijr/floc"
	"github.com/petrijr/floc/internal/menu"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Catalog string
	History string
}

// RunSummary is printed after the menu ends.
type RunSummary struct {
	RunID string      `json:"run_id"`
	Picks []menu.Pick `json:"picks"`
}

// executor is implemented by floc.LocalRunner and floc.HistoryBundle.
type executor interface {
	Execute(ctx context.Context, flow *floc.Flow, entry floc.EntryID, args ...any) (string, any, error)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive menu",
		Long: `Run the interactive menu on standard input.

Type a category name, then an item. Picking an item from another category
offers to switch menus. Type "quit" at any prompt to leave.

Examples:
  flocmenu run
  flocmenu run --catalog ./catalog.yaml
  flocmenu run --history ./floc.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a YAML catalog (default: built-in)")
	cmd.Flags().StringVar(&opts.History, "history", "", "path to a SQLite database recording run history")

	return cmd
}

func runMenu(ctx context.Context, opts *RunOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.newLogger(cmd.ErrOrStderr())

	catalog := menu.DefaultCatalog()
	if opts.Catalog != "" {
		var err error
		catalog, err = menu.LoadCatalog(opts.Catalog)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load catalog", err)
		}
	}

	app, err := menu.New(catalog, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build menu", err)
	}

	obs := floc.NewLoggingObserver(logger)
	var exec executor
	if opts.History != "" {
		db, err := sql.Open("sqlite", opts.History)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer db.Close()

		bundle, err := floc.NewSQLiteBundle(db, obs)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to prepare history", err)
		}
		exec = bundle
	} else {
		exec = floc.NewLocalRunner(obs)
	}

	runID, result, err := exec.Execute(ctx, app.Flow(), menu.EntryStart)
	picks, err := app.Finish(result, err)
	if err != nil {
		return WrapExitError(ExitFailure, "menu failed", err)
	}

	summary := RunSummary{RunID: runID, Picks: picks}
	if summary.Picks == nil {
		summary.Picks = []menu.Pick{}
	}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), summary)
	}

	out := cmd.OutOrStdout()
	noun := "items"
	if len(picks) == 1 {
		noun = "item"
	}
	fmt.Fprintf(out, "Run %s picked %d %s\n", runID, len(picks), noun)
	for _, p := range picks {
		fmt.Fprintf(out, "  %s: %s\n", p.Category, p.Item)
	}
	return nil
}
