package join

import (
	"errors"
	"fmt"

	"github.com/roach88/mjoin/internal/cursor"
)

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeEmptyKey indicates a side has no key fields.
	ErrCodeEmptyKey ConfigErrorCode = "EMPTY_KEY"

	// ErrCodeKeyArity indicates the two sides have different key lengths.
	ErrCodeKeyArity ConfigErrorCode = "KEY_ARITY"

	// ErrCodeUnresolvedField indicates a field name could not be resolved.
	ErrCodeUnresolvedField ConfigErrorCode = "UNRESOLVED_FIELD"

	// ErrCodeHeaderMissing indicates headers were enabled but an input has
	// no header line.
	ErrCodeHeaderMissing ConfigErrorCode = "HEADER_MISSING"

	// ErrCodeBadProjection indicates an output column names an unknown file.
	ErrCodeBadProjection ConfigErrorCode = "BAD_PROJECTION"
)

// ConfigError is a configuration problem detected before or while priming.
type ConfigError struct {
	Code ConfigErrorCode

	// Side is "left" or "right" when the problem belongs to one input.
	Side string

	Message string

	Err error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Side != "" {
		msg = fmt.Sprintf("%s (side=%s)", msg, e.Side)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsEmptyInput reports whether err means one side had no records.
func IsEmptyInput(err error) bool {
	return errors.Is(err, cursor.ErrEmptyStream)
}

// IsReadError reports whether err is an I/O failure on one of the inputs.
func IsReadError(err error) bool {
	return cursor.IsReadError(err)
}
