package harness

import (
	"strings"

	"github.com/roach88/mjoin/internal/join"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the output (or error) matched the scenario's
	// expectations.
	Pass bool `json:"pass"`

	// Lines holds every line the join emitted, header included.
	Lines []string `json:"lines"`

	// Stats is the join summary. Zero when the join failed before priming.
	Stats join.Stats `json:"-"`

	// Err is the join error, if any.
	Err error `json:"-"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Lines:  []string{},
		Errors: []string{},
	}
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Output renders Lines the way the CLI writes them: one line per row, each
// newline terminated.
func (r *Result) Output() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}
