package testutil

import (
	"fmt"
	"sync"
	"time"
)

// FixedRunIDGenerator returns the same run ID every time.
//
// This enables deterministic ledger contents in tests.
// If id is empty, Generate returns "test-run-default".
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a new fixed run ID generator.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequenceRunIDGenerator returns "run-1", "run-2", ... in order.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequenceRunIDGenerator struct {
	mu  sync.Mutex
	seq int
}

// Generate returns the next run ID in the sequence.
func (g *SequenceRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("run-%d", g.seq)
}

// StepClock is a deterministic clock for tests. Each call to Now advances
// by Step from Start.
type StepClock struct {
	mu    sync.Mutex
	Start time.Time
	Step  time.Duration
	calls int
}

// NewStepClock creates a clock that starts at start and advances by step.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{Start: start, Step: step}
}

// Now returns Start + n*Step for the n-th call (0-based).
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.Start.Add(time.Duration(c.calls) * c.Step)
	c.calls++
	return t
}
