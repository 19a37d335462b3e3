package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mjoin/internal/config"
	"github.com/roach88/mjoin/internal/join"
)

// ValidationResult holds profile validation results.
type ValidationResult struct {
	Valid   bool            `json:"valid"`
	Profile *config.Profile `json:"profile,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <profile>",
		Short: "Validate a join profile without running a join",
		Long: `Validate a YAML join profile.

The profile is decoded strictly (unknown keys are errors), checked against
the profile schema, and applied to a default join configuration so that
every field reference and output column is checked the way "join --config"
would check it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	p, err := loadProfile(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeNotFound {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidationErrors(formatter, []string{err.Error()})
	}

	cfg := join.DefaultConfig()
	if err := p.Apply(&cfg); err != nil {
		return outputValidationErrors(formatter, []string{err.Error()})
	}
	if err := cfg.Validate(); err != nil {
		return outputValidationErrors(formatter, []string{err.Error()})
	}

	formatter.VerboseLog("Profile %s: keys left=%v right=%v output=%s header=%t",
		path, cfg.Left.Keys, cfg.Right.Keys, cfg.Output, cfg.Header)

	return outputValidateSuccess(formatter, p)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, p *config.Profile) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Profile: p})
	}

	fmt.Fprintln(formatter.Writer, "✓ Profile valid")
	return nil
}

// outputValidateError outputs a single command error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Missing files are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs validation failures.
func outputValidationErrors(formatter *OutputFormatter, errs []string) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    ErrCodeProfile,
				Message: errs[0],
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Profile invalid")
	fmt.Fprintln(formatter.Writer)
	for _, msg := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", ErrCodeProfile, msg)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
