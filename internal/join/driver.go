package join

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/mjoin/internal/cursor"
	"github.com/roach88/mjoin/internal/header"
	"github.com/roach88/mjoin/internal/projection"
	"github.com/roach88/mjoin/internal/record"
)

const (
	sideLeft  = "left"
	sideRight = "right"
)

// Sink receives each fully formatted output line, without terminator.
type Sink func(line string) error

// Stats summarizes a finished join.
type Stats struct {
	LeftRecords    int64
	RightRecords   int64
	Matched        int64
	LeftUnmatched  int64
	RightUnmatched int64

	// Emitted counts data lines handed to the sink, header excluded.
	Emitted int64

	// Header reports whether a header line was written.
	Header bool

	// Columns is the expanded output layout.
	Columns []projection.Descriptor
}

// Join merges two key-sorted sources and writes output rows to sink.
// Any error aborts the join; rows already written stay written.
func Join(left, right cursor.LineSource, cfg Config, sink Sink) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}

	d := &driver{
		cfg:   cfg,
		left:  cursor.New(sideLeft, left, cfg.delimiter()),
		right: cursor.New(sideRight, right, cfg.delimiter()),
		sink:  sink,
	}
	err := d.run()
	d.stats.LeftRecords = d.left.Records()
	d.stats.RightRecords = d.right.Records()
	return d.stats, err
}

type driver struct {
	cfg   Config
	left  *cursor.Cursor
	right *cursor.Cursor
	proj  *projection.Projector
	sink  Sink
	stats Stats

	leftHeader  *record.FieldView
	rightHeader *record.FieldView
}

func (d *driver) run() error {
	if err := d.prime(); err != nil {
		return err
	}
	if err := d.writeHeader(); err != nil {
		return err
	}
	if err := d.merge(); err != nil {
		return err
	}
	if err := d.flush(); err != nil {
		return err
	}

	slog.Debug("join finished",
		"left_records", d.left.Records(),
		"right_records", d.right.Records(),
		"matched", d.stats.Matched,
		"left_unmatched", d.stats.LeftUnmatched,
		"right_unmatched", d.stats.RightUnmatched,
	)
	return nil
}

// prime reads header rows, resolves every field name to an index, fills
// both cursors and expands the output layout.
func (d *driver) prime() error {
	if d.cfg.Header {
		for _, c := range []*cursor.Cursor{d.left, d.right} {
			hdr, err := c.ReadHeader()
			if errors.Is(err, cursor.ErrMissingHeader) {
				return &ConfigError{Code: ErrCodeHeaderMissing, Side: c.Side(), Message: "input has no header line", Err: err}
			}
			if err != nil {
				return err
			}
			if c == d.left {
				d.leftHeader = &hdr
			} else {
				d.rightHeader = &hdr
			}
		}
	}

	if err := d.resolveKeys(d.left, d.cfg.Left.Keys, d.leftHeader); err != nil {
		return err
	}
	if err := d.resolveKeys(d.right, d.cfg.Right.Keys, d.rightHeader); err != nil {
		return err
	}

	spec, err := d.cfg.Output.ResolveNames(d.leftHeader, d.rightHeader)
	if err != nil {
		return &ConfigError{Code: ErrCodeUnresolvedField, Message: "output format", Err: err}
	}

	if err := d.left.FirstFill(); err != nil {
		return err
	}
	if err := d.right.FirstFill(); err != nil {
		return err
	}

	columns := spec.Expand(projection.Layout{
		LeftWidth:  d.left.FirstWidth(),
		RightWidth: d.right.FirstWidth(),
		LeftKeys:   d.left.Keys(),
		RightKeys:  d.right.Keys(),
	})
	d.stats.Columns = columns
	d.proj = projection.NewProjector(columns, d.cfg.outputDelimiter(), d.cfg.Left.Missing, d.cfg.Right.Missing)

	slog.Debug("join primed",
		"policy", spec.Policy.String(),
		"left_keys", d.left.Keys(),
		"right_keys", d.right.Keys(),
		"left_width", d.left.FirstWidth(),
		"right_width", d.right.FirstWidth(),
		"columns", len(columns),
	)
	return nil
}

func (d *driver) resolveKeys(c *cursor.Cursor, refs []header.FieldRef, hdr *record.FieldView) error {
	keys, err := header.ResolveAll(refs, hdr)
	if err != nil {
		return &ConfigError{Code: ErrCodeUnresolvedField, Side: c.Side(), Message: "key field", Err: err}
	}
	return c.SetKeys(keys)
}

// writeHeader renders the header rows through the same projection as data.
func (d *driver) writeHeader() error {
	if !d.cfg.Header {
		return nil
	}
	delim := d.cfg.delimiter()
	l := record.New(d.leftHeader.Line(), delim, d.left.Keys())
	r := record.New(d.rightHeader.Line(), delim, d.right.Keys())
	if err := d.sink(d.proj.Render(&l, &r)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	d.stats.Header = true
	return nil
}

// merge runs the three-way comparison loop until one side runs out.
func (d *driver) merge() error {
	more := true
	for more {
		var err error
		switch c := record.Compare(d.left.Current().Keys, d.right.Current().Keys); {
		case c == 0:
			if err := d.emitMatched(); err != nil {
				return err
			}
			more, err = d.advanceMatched()
		case c < 0:
			if err := d.emitUnmatched(d.left); err != nil {
				return err
			}
			more, err = d.left.Advance()
		default:
			if err := d.emitUnmatched(d.right); err != nil {
				return err
			}
			more, err = d.right.Advance()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// advanceMatched decides which side(s) move after a match, using the
// lookahead keys.
func (d *driver) advanceMatched() (bool, error) {
	switch {
	case d.left.Exhausted():
		return d.right.Advance()
	case d.right.Exhausted():
		return d.left.Advance()
	}

	switch c := record.Compare(d.left.Next().Keys, d.right.Next().Keys); {
	case c == 0:
		ok, err := d.left.Advance()
		if err != nil || !ok {
			return ok, err
		}
		return d.right.Advance()
	case c < 0:
		return d.left.Advance()
	default:
		return d.right.Advance()
	}
}

// flush writes the last current record of each side if it was never
// written, then streams whatever remains on a side that still has data.
func (d *driver) flush() error {
	if err := d.emitUnmatched(d.left); err != nil {
		return err
	}
	if err := d.emitUnmatched(d.right); err != nil {
		return err
	}
	for _, c := range []*cursor.Cursor{d.left, d.right} {
		for !c.Exhausted() {
			if _, err := c.Advance(); err != nil {
				return err
			}
			if err := d.emitUnmatched(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *driver) emitMatched() error {
	d.stats.Matched++
	if !d.cfg.SuppressMatched {
		if err := d.write(d.proj.Render(d.left.Current(), d.right.Current())); err != nil {
			return err
		}
	}
	d.left.MarkEmitted()
	d.right.MarkEmitted()
	return nil
}

// emitUnmatched writes c's current record alone if its side emits unmatched
// rows and the record has not been written yet.
func (d *driver) emitUnmatched(c *cursor.Cursor) error {
	if c.Emitted() {
		return nil
	}
	var line string
	if c == d.left {
		if !d.cfg.Left.EmitUnmatched {
			return nil
		}
		line = d.proj.Render(c.Current(), nil)
		d.stats.LeftUnmatched++
	} else {
		if !d.cfg.Right.EmitUnmatched {
			return nil
		}
		line = d.proj.Render(nil, c.Current())
		d.stats.RightUnmatched++
	}
	if err := d.write(line); err != nil {
		return err
	}
	c.MarkEmitted()
	return nil
}

func (d *driver) write(line string) error {
	if err := d.sink(line); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	d.stats.Emitted++
	return nil
}
