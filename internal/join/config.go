package join

import (
	"fmt"

	"github.com/roach88/mjoin/internal/header"
	"github.com/roach88/mjoin/internal/projection"
	"github.com/roach88/mjoin/internal/record"
)

// Side configures one input.
type Side struct {
	// Keys selects the join key fields, in comparison order.
	Keys []header.FieldRef

	// EmitUnmatched writes rows that have no partner on the other side.
	EmitUnmatched bool

	// Missing replaces this side's fields in rows where it is absent.
	Missing string
}

// Config configures a join.
type Config struct {
	Left  Side
	Right Side

	// Delimiter separates input fields. Zero means TAB.
	Delimiter rune

	// OutputDelimiter separates output columns. Empty means Delimiter.
	OutputDelimiter string

	// Output selects the output columns.
	Output projection.Spec

	// Header treats the first line of each input as a header row.
	Header bool

	// SuppressMatched drops matched rows, leaving only unmatched output.
	SuppressMatched bool
}

// DefaultConfig joins on the first field of both inputs.
func DefaultConfig() Config {
	return Config{
		Left:      Side{Keys: []header.FieldRef{header.Index(0)}},
		Right:     Side{Keys: []header.FieldRef{header.Index(0)}},
		Delimiter: record.DefaultDelimiter,
	}
}

func (c Config) delimiter() rune {
	if c.Delimiter == 0 {
		return record.DefaultDelimiter
	}
	return c.Delimiter
}

func (c Config) outputDelimiter() string {
	if c.OutputDelimiter == "" {
		return string(c.delimiter())
	}
	return c.OutputDelimiter
}

// Validate checks everything that can be checked without reading input.
func (c Config) Validate() error {
	if len(c.Left.Keys) == 0 {
		return &ConfigError{Code: ErrCodeEmptyKey, Side: sideLeft, Message: "at least one key field is required"}
	}
	if len(c.Right.Keys) == 0 {
		return &ConfigError{Code: ErrCodeEmptyKey, Side: sideRight, Message: "at least one key field is required"}
	}
	if len(c.Left.Keys) != len(c.Right.Keys) {
		return &ConfigError{
			Code:    ErrCodeKeyArity,
			Message: fmt.Sprintf("left has %d key fields, right has %d", len(c.Left.Keys), len(c.Right.Keys)),
		}
	}
	if !c.Header {
		for _, side := range []struct {
			name string
			keys []header.FieldRef
		}{{sideLeft, c.Left.Keys}, {sideRight, c.Right.Keys}} {
			for _, k := range side.keys {
				if !k.Resolved() {
					return &ConfigError{
						Code:    ErrCodeUnresolvedField,
						Side:    side.name,
						Message: fmt.Sprintf("key field %s", k),
						Err:     header.ErrHeaderRequired,
					}
				}
			}
		}
	}
	for _, d := range c.Output.Fields {
		if d.Kind == projection.KindField && d.File != 1 && d.File != 2 {
			return &ConfigError{
				Code:    ErrCodeBadProjection,
				Message: fmt.Sprintf("output column refers to file %d", d.File),
			}
		}
		if d.Kind == projection.KindField && !c.Header && !d.Field.Resolved() {
			return &ConfigError{
				Code:    ErrCodeUnresolvedField,
				Message: fmt.Sprintf("output column %s", d),
				Err:     header.ErrHeaderRequired,
			}
		}
	}
	return nil
}
