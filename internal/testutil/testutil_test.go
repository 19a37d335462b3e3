package testutil

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceSource_ServesLinesThenEOF(t *testing.T) {
	src := Lines("a", "b")

	line, err := src.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	line, err = src.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = src.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, src.Consumed())
}

func TestFailingSource_FailsInsteadOfEOF(t *testing.T) {
	src := FailAfter("a")

	line, err := src.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	_, err = src.ReadLine()
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFixedRunIDGenerator(t *testing.T) {
	assert.Equal(t, "run-x", NewFixedRunIDGenerator("run-x").Generate())
	assert.Equal(t, "test-run-default", NewFixedRunIDGenerator("").Generate())
}

func TestSequenceRunIDGenerator(t *testing.T) {
	g := &SequenceRunIDGenerator{}
	assert.Equal(t, "run-1", g.Generate())
	assert.Equal(t, "run-2", g.Generate())
}

func TestStepClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStepClock(start, time.Second)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
	assert.Equal(t, start.Add(2*time.Second), c.Now())
}
