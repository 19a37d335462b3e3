package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mjoin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mjoin",
		Short: "mjoin - streaming merge join for sorted text files",
		Long: `Join the lines of two key-sorted delimited text files on a common key.

Both inputs are read once, in lockstep, holding one record and one lookahead
per side in memory, so inputs of any size can be joined.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags. -v belongs to join's "only unpaired" flag, so verbose
	// has no shorthand.
	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format for reports (json|text)")

	cmd.AddCommand(NewJoinCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
