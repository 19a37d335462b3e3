package cursor

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyStream is returned by FirstFill when the source has no records.
	ErrEmptyStream = errors.New("no input records")

	// ErrMissingHeader is returned by ReadHeader when the source is empty.
	ErrMissingHeader = errors.New("no header line")

	// ErrNotEmpty is returned when a priming operation runs after the cursor
	// has already been primed.
	ErrNotEmpty = errors.New("cursor already primed")

	// ErrNotPrimed is returned by Advance before FirstFill.
	ErrNotPrimed = errors.New("cursor not primed")

	// ErrNoKeys is returned by FirstFill when no key indices are set.
	ErrNoKeys = errors.New("no key fields configured")
)

// ReadError reports a failed read from one side's source.
type ReadError struct {
	// Side names the stream ("left" or "right").
	Side string

	// Line is the 1-based number of the line that could not be read.
	Line int64

	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s input at line %d: %v", e.Side, e.Line, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// IsReadError reports whether err is, or wraps, a ReadError.
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}
