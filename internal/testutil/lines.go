package testutil

import (
	"errors"
	"io"
)

// SliceSource serves lines from memory. It implements cursor.LineSource.
type SliceSource struct {
	lines []string
	pos   int
}

// Lines creates a SliceSource over the given lines.
func Lines(lines ...string) *SliceSource {
	return &SliceSource{lines: lines}
}

// ReadLine returns the next line, or io.EOF when none remain.
func (s *SliceSource) ReadLine() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

// Consumed returns how many lines have been read.
func (s *SliceSource) Consumed() int {
	return s.pos
}

// ErrInjected is the error returned by FailingSource.
var ErrInjected = errors.New("injected read failure")

// FailingSource serves lines and then fails with ErrInjected instead of
// reporting end of input.
type FailingSource struct {
	SliceSource
}

// FailAfter creates a FailingSource that returns lines, then ErrInjected.
func FailAfter(lines ...string) *FailingSource {
	return &FailingSource{SliceSource{lines: lines}}
}

// ReadLine returns the next line, or ErrInjected when none remain.
func (s *FailingSource) ReadLine() (string, error) {
	line, err := s.SliceSource.ReadLine()
	if errors.Is(err, io.EOF) {
		return "", ErrInjected
	}
	return line, err
}
