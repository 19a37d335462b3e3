package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mjoin/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - print the recorded output of one run
}

// RunsResult is the JSON payload of the runs listing.
type RunsResult struct {
	Runs []store.RunRecord `json:"runs"`
}

// RunOutput is the JSON payload of a single run's recorded output.
type RunOutput struct {
	Run   store.RunRecord `json:"run"`
	Lines []string        `json:"lines"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List joins recorded in a run ledger",
		Long: `List the joins recorded with "join --db", oldest first.

With --run, print the output lines recorded for that run instead.

Examples:
  mjoin runs --db ./runs.db
  mjoin runs --db ./runs.db --format json
  mjoin runs --db ./runs.db --run 0190a5c2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "print the recorded output of this run")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create an empty ledger; a missing one is an error here.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, ErrCodeNotFound+": database not found", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.RunID != "" {
		return outputRun(ctx, formatter, st, runs, opts.RunID)
	}

	if opts.Format == "json" {
		return formatter.Success(RunsResult{Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%-36s  %-9s  %-20s  %8s  %8s  %8s  %8s  %s\n",
		"RUN", "STATUS", "STARTED", "MATCHED", "LEFT", "RIGHT", "EMITTED", "INPUTS")
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%-36s  %-9s  %-20s  %8d  %8d  %8d  %8d  %s %s\n",
			r.ID, r.Status, r.StartedAt.UTC().Format(time.RFC3339),
			r.Matched, r.LeftUnmatched, r.RightUnmatched, r.Emitted,
			r.Left, r.Right)
		if r.Error != "" {
			fmt.Fprintf(formatter.Writer, "  error: %s\n", r.Error)
		}
	}
	return nil
}

func outputRun(ctx context.Context, formatter *OutputFormatter, st *store.Store, runs []store.RunRecord, id string) error {
	var found *store.RunRecord
	for i := range runs {
		if runs[i].ID == id {
			found = &runs[i]
			break
		}
	}
	if found == nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", id), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: run not found: %s", ErrCodeNotFound, id))
	}

	lines, err := st.Lines(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run output", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunOutput{Run: *found, Lines: lines})
	}
	for _, line := range lines {
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}
