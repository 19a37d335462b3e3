package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjoin/internal/config"
	"github.com/roach88/mjoin/internal/join"
)

func TestRun_MatchingExpectationPasses(t *testing.T) {
	s := &Scenario{
		Name:        "inner",
		Description: "inner join",
		Left:        []string{"1\tA", "2\tB"},
		Right:       []string{"2\tX"},
		Expect:      []string{"2\tB\tX"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, []string{"2\tB\tX"}, result.Lines)
	assert.Equal(t, int64(1), result.Stats.Matched)
	assert.Equal(t, int64(2), result.Stats.LeftRecords)
	assert.Equal(t, "2\tB\tX\n", result.Output())
}

func TestRun_MismatchedLineFails(t *testing.T) {
	s := &Scenario{
		Name:        "wrong",
		Description: "wrong expectation",
		Left:        []string{"1\tA"},
		Right:       []string{"1\tB"},
		Expect:      []string{"1\tA\tC"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 1")
}

func TestRun_LineCountMismatchFails(t *testing.T) {
	s := &Scenario{
		Name:        "short",
		Description: "expects nothing",
		Left:        []string{"1\tA"},
		Right:       []string{"1\tB"},
		Expect:      []string{},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected 0 lines, got 1")
}

func TestRun_NilExpectSkipsOutputCheck(t *testing.T) {
	s := &Scenario{
		Name:        "golden_only",
		Description: "output checked elsewhere",
		Left:        []string{"1\tA"},
		Right:       []string{"1\tB"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Len(t, result.Lines, 1)
}

func TestRun_ExpectedError(t *testing.T) {
	s := &Scenario{
		Name:        "arity",
		Description: "key arity",
		Left:        []string{"a\tb"},
		Right:       []string{"a\tb"},
		Options: config.Profile{
			Left:  &config.Side{Keys: []string{"1", "2"}},
			Right: &config.Side{Keys: []string{"1"}},
		},
		ExpectError: "KEY_ARITY",
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.True(t, join.IsConfigError(result.Err))
	assert.Empty(t, result.Output())
}

func TestRun_ExpectedErrorButSucceeded(t *testing.T) {
	s := &Scenario{
		Name:        "no_error",
		Description: "join succeeds",
		Left:        []string{"1"},
		Right:       []string{"1"},
		ExpectError: "KEY_ARITY",
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "join succeeded")
}

func TestRun_UnexpectedJoinError(t *testing.T) {
	s := &Scenario{
		Name:        "empty",
		Description: "left has no records",
		Left:        nil,
		Right:       []string{"1"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.True(t, join.IsEmptyInput(result.Err))
	assert.Contains(t, result.Errors[0], "join failed")
}

func TestRun_UnappliableOptions(t *testing.T) {
	s := &Scenario{
		Name:        "bad",
		Description: "bad output",
		Left:        []string{"1"},
		Right:       []string{"1"},
		Options:     config.Profile{Output: "x.y.z"},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply options")
}
