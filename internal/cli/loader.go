package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/roach88/mjoin/internal/config"
	"github.com/roach88/mjoin/internal/header"
	"github.com/roach88/mjoin/internal/join"
	"github.com/roach88/mjoin/internal/projection"
	"github.com/roach88/mjoin/internal/source"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeUsage       = "E002" // Invalid flag value
	ErrCodeEmptyInput  = "E003" // An input has no records
	ErrCodeReadFailed  = "E004" // Input could not be read
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeConfig      = "E006" // Join configuration rejected
	ErrCodeWriteFailed = "E007" // Output write error
	ErrCodeProfile     = "E008" // Profile failed to parse or validate
	ErrCodeLedger      = "E009" // Run ledger error
	ErrCodeMetrics     = "E010" // Metrics textfile error
)

// LoadError represents an error that occurred while assembling a join
// configuration from a profile and flags.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadProfile reads a profile, classifying a missing file apart from an
// invalid one.
func loadProfile(path string) (*config.Profile, error) {
	p, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("profile not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeProfile, Message: "invalid profile", Err: err}
	}
	return p, nil
}

// loadJoinConfig builds the join configuration in three layers: defaults,
// then the profile named by --config, then every flag set explicitly on the
// command line.
func loadJoinConfig(opts *JoinOptions, cmd *cobra.Command) (join.Config, source.Options, error) {
	cfg := join.DefaultConfig()
	var srcOpts source.Options

	if opts.Config != "" {
		p, err := loadProfile(opts.Config)
		if err != nil {
			return cfg, srcOpts, err
		}
		if err := p.Apply(&cfg); err != nil {
			return cfg, srcOpts, &LoadError{Code: ErrCodeProfile, Message: "invalid profile", Err: err}
		}
		srcOpts = p.SourceOptions()
	}

	changed := cmd.Flags().Changed
	usage := func(flag string, err error) error {
		return &LoadError{Code: ErrCodeUsage, Message: fmt.Sprintf("invalid --%s", flag), Err: err}
	}

	if changed("join-field") {
		refs, err := header.ParseList(opts.JoinField)
		if err != nil {
			return cfg, srcOpts, usage("join-field", err)
		}
		cfg.Left.Keys = refs
		cfg.Right.Keys = refs
	}
	if changed("field1") {
		refs, err := header.ParseList(opts.Field1)
		if err != nil {
			return cfg, srcOpts, usage("field1", err)
		}
		cfg.Left.Keys = refs
	}
	if changed("field2") {
		refs, err := header.ParseList(opts.Field2)
		if err != nil {
			return cfg, srcOpts, usage("field2", err)
		}
		cfg.Right.Keys = refs
	}

	for _, n := range opts.Unpaired {
		side, err := fileSide(&cfg, n)
		if err != nil {
			return cfg, srcOpts, usage("unpaired", err)
		}
		side.EmitUnmatched = true
	}
	for _, n := range opts.OnlyUnpaired {
		side, err := fileSide(&cfg, n)
		if err != nil {
			return cfg, srcOpts, usage("only-unpaired", err)
		}
		side.EmitUnmatched = true
		cfg.SuppressMatched = true
	}

	if changed("empty") {
		cfg.Left.Missing = opts.Empty
		cfg.Right.Missing = opts.Empty
	}
	if changed("empty-left") {
		cfg.Left.Missing = opts.EmptyLeft
	}
	if changed("empty-right") {
		cfg.Right.Missing = opts.EmptyRight
	}

	if changed("output") {
		spec, err := projection.Parse(opts.Output)
		if err != nil {
			return cfg, srcOpts, usage("output", err)
		}
		cfg.Output = spec
	}
	if changed("delimiter") {
		r, err := parseDelimiter(opts.Delimiter)
		if err != nil {
			return cfg, srcOpts, usage("delimiter", err)
		}
		cfg.Delimiter = r
	}
	if changed("output-delimiter") {
		cfg.OutputDelimiter = unescapeTab(opts.OutputDelimiter)
	}
	if changed("header") {
		cfg.Header = opts.Header
	}
	if changed("encoding") {
		srcOpts.Encoding = opts.Encoding
	}
	if changed("sheet") {
		srcOpts.Sheet = opts.Sheet
	}
	srcOpts.Delimiter = cfg.Delimiter

	return cfg, srcOpts, nil
}

// fileSide maps a GNU file number (1 or 2) to its side of cfg.
func fileSide(cfg *join.Config, n int) (*join.Side, error) {
	switch n {
	case 1:
		return &cfg.Left, nil
	case 2:
		return &cfg.Right, nil
	}
	return nil, fmt.Errorf("file number must be 1 or 2, got %d", n)
}

// parseDelimiter accepts exactly one character. A literal backslash-t
// means TAB.
func parseDelimiter(s string) (rune, error) {
	s = unescapeTab(s)
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func unescapeTab(s string) string {
	return strings.ReplaceAll(s, `\t`, "\t")
}
