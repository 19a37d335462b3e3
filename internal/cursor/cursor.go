package cursor

import (
	"errors"
	"fmt"
	"io"

	"github.com/roach88/mjoin/internal/record"
)

// LineSource yields one line per call, without its terminator.
// It returns io.EOF once no lines remain.
type LineSource interface {
	ReadLine() (string, error)
}

// State is the lifecycle position of a Cursor.
type State int

const (
	StateEmpty State = iota
	StatePrimed
	StateAdvancing
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePrimed:
		return "primed"
	case StateAdvancing:
		return "advancing"
	case StateExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Cursor holds the current record of a stream and a one-record lookahead.
//
// A Cursor owns its records exclusively. It is not safe for concurrent use.
type Cursor struct {
	side  string
	src   LineSource
	delim rune
	keys  []int

	state   State
	current record.Record
	next    record.Record
	emitted bool

	// lines counts raw lines consumed from src, header included.
	lines int64
	// records counts data records rotated into current.
	records int64
	// firstWidth is the field count of the first data record.
	firstWidth int
}

// New creates an empty cursor over src. side names the stream in errors.
func New(side string, src LineSource, delim rune) *Cursor {
	return &Cursor{side: side, src: src, delim: delim}
}

// Side returns the stream name given to New.
func (c *Cursor) Side() string {
	return c.side
}

// SetKeys sets the resolved key field indices. Only valid before FirstFill.
func (c *Cursor) SetKeys(indices []int) error {
	if c.state != StateEmpty {
		return ErrNotEmpty
	}
	c.keys = append([]int(nil), indices...)
	return nil
}

// Keys returns the key field indices.
func (c *Cursor) Keys() []int {
	return c.keys
}

// ReadHeader consumes the first line as a header row. Only valid before
// FirstFill.
func (c *Cursor) ReadHeader() (record.FieldView, error) {
	if c.state != StateEmpty {
		return record.FieldView{}, ErrNotEmpty
	}
	line, ok, err := c.readRaw()
	if err != nil {
		return record.FieldView{}, err
	}
	if !ok {
		return record.FieldView{}, fmt.Errorf("%s: %w", c.side, ErrMissingHeader)
	}
	return record.Split(line, c.delim), nil
}

// FirstFill reads the first two records: the first becomes current, the
// second the lookahead. A source with no records yields ErrEmptyStream.
func (c *Cursor) FirstFill() error {
	if c.state != StateEmpty {
		return ErrNotEmpty
	}
	if len(c.keys) == 0 {
		return fmt.Errorf("%s: %w", c.side, ErrNoKeys)
	}

	ok, err := c.fill()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", c.side, ErrEmptyStream)
	}

	if _, err := c.rotate(); err != nil {
		return err
	}
	c.firstWidth = c.current.Len()
	if c.state != StateExhausted {
		c.state = StatePrimed
	}
	return nil
}

// Advance moves the lookahead into current and reads a new lookahead.
// It returns false without effect when the cursor is already exhausted.
// The call that exhausts the stream still returns true: current is usable.
func (c *Cursor) Advance() (bool, error) {
	switch c.state {
	case StateEmpty:
		return false, ErrNotPrimed
	case StateExhausted:
		return false, nil
	}

	if _, err := c.rotate(); err != nil {
		return false, err
	}
	if c.state != StateExhausted {
		c.state = StateAdvancing
	}
	return true, nil
}

// rotate promotes next to current, clears the emitted flag and refills next.
func (c *Cursor) rotate() (bool, error) {
	c.current = c.next
	c.emitted = false
	c.records++

	ok, err := c.fill()
	if err != nil {
		return false, err
	}
	if !ok {
		c.state = StateExhausted
	}
	return ok, nil
}

// fill reads one record into next. It returns false at end of input.
func (c *Cursor) fill() (bool, error) {
	line, ok, err := c.readRaw()
	if err != nil || !ok {
		c.next = record.Record{}
		return false, err
	}
	c.next = record.New(line, c.delim, c.keys)
	return true, nil
}

func (c *Cursor) readRaw() (string, bool, error) {
	line, err := c.src.ReadLine()
	if errors.Is(err, io.EOF) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &ReadError{Side: c.side, Line: c.lines + 1, Err: err}
	}
	c.lines++
	return line, true, nil
}

// State returns the cursor's lifecycle state.
func (c *Cursor) State() State {
	return c.state
}

// Exhausted reports whether the lookahead could not be refilled.
func (c *Cursor) Exhausted() bool {
	return c.state == StateExhausted
}

// Current returns the current record. Valid after FirstFill.
func (c *Cursor) Current() *record.Record {
	return &c.current
}

// Next returns the lookahead record. Valid while not exhausted.
func (c *Cursor) Next() *record.Record {
	return &c.next
}

// MarkEmitted records that current has been written to the output.
func (c *Cursor) MarkEmitted() {
	c.emitted = true
}

// Emitted reports whether current has been written to the output.
func (c *Cursor) Emitted() bool {
	return c.emitted
}

// FirstWidth returns the field count of the first data record.
func (c *Cursor) FirstWidth() int {
	return c.firstWidth
}

// Records returns the number of data records made current so far.
func (c *Cursor) Records() int64 {
	return c.records
}
