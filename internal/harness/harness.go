package harness

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/mjoin/internal/join"
	"github.com/roach88/mjoin/internal/testutil"
)

// Run executes a scenario in memory and checks its expectations.
//
// The returned error reports a scenario that could not be executed at all
// (options that cannot be applied). A join that fails is recorded in
// Result.Err and judged against ExpectError.
func Run(s *Scenario) (*Result, error) {
	cfg := join.DefaultConfig()
	if err := s.Options.Apply(&cfg); err != nil {
		return nil, fmt.Errorf("scenario %s: apply options: %w", s.Name, err)
	}

	result := NewResult()
	stats, err := join.Join(
		testutil.Lines(s.Left...),
		testutil.Lines(s.Right...),
		cfg,
		func(line string) error {
			result.Lines = append(result.Lines, line)
			return nil
		},
	)
	result.Stats = stats
	result.Err = err

	slog.Debug("scenario finished",
		"scenario", s.Name,
		"lines", len(result.Lines),
		"error", err,
	)

	checkExpectations(s, result)
	return result, nil
}

func checkExpectations(s *Scenario, r *Result) {
	switch {
	case s.ExpectError != "":
		if r.Err == nil {
			r.AddError(fmt.Sprintf("expected error containing %q, join succeeded", s.ExpectError))
		} else if !strings.Contains(r.Err.Error(), s.ExpectError) {
			r.AddError(fmt.Sprintf("expected error containing %q, got %q", s.ExpectError, r.Err.Error()))
		}
		return
	case r.Err != nil:
		r.AddError(fmt.Sprintf("join failed: %v", r.Err))
		return
	}

	if s.Expect == nil {
		return
	}
	if len(r.Lines) != len(s.Expect) {
		r.AddError(fmt.Sprintf("expected %d lines, got %d", len(s.Expect), len(r.Lines)))
	}
	for i := 0; i < len(s.Expect) && i < len(r.Lines); i++ {
		if r.Lines[i] != s.Expect[i] {
			r.AddError(fmt.Sprintf("line %d: expected %q, got %q", i+1, s.Expect[i], r.Lines[i]))
		}
	}
}
