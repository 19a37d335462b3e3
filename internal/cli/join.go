package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mjoin/internal/join"
	"github.com/roach88/mjoin/internal/metrics"
	"github.com/roach88/mjoin/internal/source"
	"github.com/roach88/mjoin/internal/store"
)

// JoinOptions holds flags for the join command.
type JoinOptions struct {
	*RootOptions

	Field1       string
	Field2       string
	JoinField    string
	Unpaired     []int
	OnlyUnpaired []int
	Empty        string
	EmptyLeft    string
	EmptyRight   string
	Output       string
	Delimiter    string

	OutputDelimiter string
	Header          bool
	Encoding        string
	Sheet           string

	Database    string
	MetricsFile string
	Config      string

	// RunIDs and Clock override the ledger's run ID generator and clock
	// (for testing). If nil, the store defaults are used.
	RunIDs store.RunIDGenerator
	Clock  store.Clock
}

// JoinSummary is the report printed after a join in verbose mode.
type JoinSummary struct {
	Left           string `json:"left"`
	Right          string `json:"right"`
	LeftRecords    int64  `json:"left_records"`
	RightRecords   int64  `json:"right_records"`
	Matched        int64  `json:"matched"`
	LeftUnmatched  int64  `json:"left_unmatched"`
	RightUnmatched int64  `json:"right_unmatched"`
	Emitted        int64  `json:"emitted"`
	RunID          string `json:"run_id,omitempty"`
}

func (s JoinSummary) String() string {
	msg := fmt.Sprintf("joined %s (%d records) with %s (%d records): matched=%d left_unmatched=%d right_unmatched=%d emitted=%d",
		s.Left, s.LeftRecords, s.Right, s.RightRecords,
		s.Matched, s.LeftUnmatched, s.RightUnmatched, s.Emitted)
	if s.RunID != "" {
		msg += " run=" + s.RunID
	}
	return msg
}

// NewJoinCommand creates the join command.
func NewJoinCommand(rootOpts *RootOptions) *cobra.Command {
	return newJoinCommand(&JoinOptions{RootOptions: rootOpts})
}

func newJoinCommand(opts *JoinOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join FILE1 FILE2",
		Short: "Join two key-sorted files",
		Long: `For each pair of input lines with identical join keys, write a line to
standard output. Both inputs must be sorted on their join keys by byte
value. When FILE1 or FILE2 (not both) is -, read standard input.

Inputs ending in .gz or .zst are decompressed; .xlsx workbooks are read one
sheet at a time. Field numbers are 1-based; with --header, header names may
be used instead of numbers.

The default output is the join key, the remaining fields of FILE1, then the
remaining fields of FILE2. -o takes a list of 0 (the key) and FILE.FIELD
columns, "auto" or "all".

Examples:
  mjoin join users.tsv orders.tsv
  mjoin join -t , -1 2 -2 1 -a 1 -e NULL left.csv right.csv
  mjoin join --header -j id -o 0,1.name,2.total users.tsv orders.tsv
  mjoin join --config nightly.yaml --db runs.db a.tsv.gz b.tsv.gz`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(opts, args[0], args[1], cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Field1, "field1", "1", "1", "join on this field (or comma separated fields) of FILE1")
	f.StringVarP(&opts.Field2, "field2", "2", "1", "join on this field (or comma separated fields) of FILE2")
	f.StringVarP(&opts.JoinField, "join-field", "j", "1", "equivalent to -1 FIELD -2 FIELD")
	f.IntSliceVarP(&opts.Unpaired, "unpaired", "a", nil, "also print unpairable lines from file FILENUM (1 or 2)")
	f.IntSliceVarP(&opts.OnlyUnpaired, "only-unpaired", "v", nil, "like -a FILENUM, but suppress joined output lines")
	f.StringVarP(&opts.Empty, "empty", "e", "", "replace missing input fields with EMPTY")
	f.StringVar(&opts.EmptyLeft, "empty-left", "", "replace missing FILE1 fields with this value")
	f.StringVar(&opts.EmptyRight, "empty-right", "", "replace missing FILE2 fields with this value")
	f.StringVarP(&opts.Output, "output", "o", "", "output format: 0 and FILE.FIELD columns, \"auto\" or \"all\"")
	f.StringVarP(&opts.Delimiter, "delimiter", "t", `\t`, "input field separator (one character)")
	f.StringVar(&opts.OutputDelimiter, "output-delimiter", "", "output column separator (default: the input separator)")
	f.BoolVar(&opts.Header, "header", false, "treat the first line of each file as a header")
	f.StringVar(&opts.Encoding, "encoding", "", "input text encoding (e.g. latin1, windows-1252); default UTF-8")
	f.StringVar(&opts.Sheet, "sheet", "", "sheet to read from .xlsx inputs (default: first sheet)")
	f.StringVar(&opts.Database, "db", "", "record the run and its output in this SQLite ledger")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics for the run to this textfile")
	f.StringVar(&opts.Config, "config", "", "load join options from a YAML profile; flags override it")

	return cmd
}

// configureLogging installs the default slog logger writing to w.
func configureLogging(opts *RootOptions, w io.Writer) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func runJoin(opts *JoinOptions, leftName, rightName string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configureLogging(opts.RootOptions, cmd.ErrOrStderr())

	// Joined rows own stdout; reports and errors go to stderr.
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.ErrOrStderr(),
		Verbose: opts.Verbose,
	}

	cfg, srcOpts, err := loadJoinConfig(opts, cmd)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	srcOpts.Stdin = cmd.InOrStdin()

	left, right, err := source.OpenPair(leftName, rightName, srcOpts)
	if err != nil {
		switch {
		case errors.Is(err, source.ErrStdinTwice):
			return outputJoinError(formatter, ExitCommandError, ErrCodeUsage, "invalid inputs", err)
		case errors.Is(err, fs.ErrNotExist):
			return outputJoinError(formatter, ExitCommandError, ErrCodeNotFound, "input not found", err)
		default:
			return outputJoinError(formatter, ExitCommandError, ErrCodeReadFailed, "failed to open inputs", err)
		}
	}
	defer left.Close()
	defer right.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	var sink join.Sink = func(line string) error {
		if _, err := out.WriteString(line); err != nil {
			return err
		}
		return out.WriteByte('\n')
	}

	var run *store.Run
	if opts.Database != "" {
		st, err := store.Open(opts.Database, storeOptions(opts)...)
		if err != nil {
			return outputJoinError(formatter, ExitCommandError, ErrCodeLedger, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		run, err = st.Begin(ctx, leftName, rightName)
		if err != nil {
			return outputJoinError(formatter, ExitCommandError, ErrCodeLedger, "failed to record run", err)
		}
		sink = run.Tee(sink)
		slog.Debug("recording run", "run_id", run.ID, "db", opts.Database)
	}

	start := time.Now()
	stats, joinErr := join.Join(left, right, cfg, sink)
	if flushErr := out.Flush(); flushErr != nil && joinErr == nil {
		joinErr = fmt.Errorf("write output: %w", flushErr)
	}
	elapsed := time.Since(start)

	if run != nil {
		sum := store.Summary{
			Matched:        stats.Matched,
			LeftUnmatched:  stats.LeftUnmatched,
			RightUnmatched: stats.RightUnmatched,
			Emitted:        stats.Emitted,
		}
		if err := run.Finish(sum, joinErr); err != nil {
			if joinErr == nil {
				return outputJoinError(formatter, ExitFailure, ErrCodeLedger, "failed to finish run", err)
			}
			slog.Error("failed to finish run", "run_id", run.ID, "error", err)
		}
	}

	if opts.MetricsFile != "" {
		m := metrics.New()
		m.Observe(stats, elapsed, time.Now(), joinErr)
		if err := m.WriteTextfile(opts.MetricsFile); err != nil {
			if joinErr == nil {
				return outputJoinError(formatter, ExitFailure, ErrCodeMetrics, "failed to write metrics", err)
			}
			slog.Error("failed to write metrics", "path", opts.MetricsFile, "error", err)
		}
	}

	if joinErr != nil {
		return outputJoinFailure(formatter, joinErr)
	}

	if opts.Verbose {
		summary := JoinSummary{
			Left:           leftName,
			Right:          rightName,
			LeftRecords:    stats.LeftRecords,
			RightRecords:   stats.RightRecords,
			Matched:        stats.Matched,
			LeftUnmatched:  stats.LeftUnmatched,
			RightUnmatched: stats.RightUnmatched,
			Emitted:        stats.Emitted,
		}
		if run != nil {
			summary.RunID = run.ID
		}
		return formatter.Success(summary)
	}
	return nil
}

func storeOptions(opts *JoinOptions) []store.Option {
	var storeOpts []store.Option
	if opts.RunIDs != nil {
		storeOpts = append(storeOpts, store.WithRunIDGenerator(opts.RunIDs))
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}
	return storeOpts
}

// outputJoinFailure classifies an error returned by join.Join.
func outputJoinFailure(formatter *OutputFormatter, err error) error {
	switch {
	case join.IsConfigError(err):
		return outputJoinError(formatter, ExitCommandError, ErrCodeConfig, "invalid join configuration", err)
	case join.IsEmptyInput(err):
		return outputJoinError(formatter, ExitFailure, ErrCodeEmptyInput, "empty input", err)
	case join.IsReadError(err):
		return outputJoinError(formatter, ExitFailure, ErrCodeReadFailed, "failed to read input", err)
	default:
		return outputJoinError(formatter, ExitFailure, ErrCodeWriteFailed, "join failed", err)
	}
}

// outputLoadError reports a profile or flag problem.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return outputJoinError(formatter, ExitCommandError, loadErr.Code, loadErr.Message, loadErr.Err)
	}
	return outputJoinError(formatter, ExitCommandError, ErrCodeGeneric, "invalid options", err)
}

func outputJoinError(formatter *OutputFormatter, exitCode int, code, message string, err error) error {
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), err)
}
