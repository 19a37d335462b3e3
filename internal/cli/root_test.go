package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning stdout and
// stderr separately.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mjoin", cmd.Use)
	assert.Contains(t, cmd.Long, "key-sorted")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"join", "validate", "runs"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Empty(t, verboseFlag.Shorthand, "-v is join's only-unpaired flag")
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestJoinCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	joinCmd, _, err := cmd.Find([]string{"join"})
	require.NoError(t, err)

	shorthands := map[string]string{
		"field1":        "1",
		"field2":        "2",
		"join-field":    "j",
		"unpaired":      "a",
		"only-unpaired": "v",
		"empty":         "e",
		"output":        "o",
		"delimiter":     "t",
	}
	for name, short := range shorthands {
		f := joinCmd.Flags().Lookup(name)
		require.NotNil(t, f, "flag --%s", name)
		assert.Equal(t, short, f.Shorthand, "flag --%s", name)
	}

	for _, name := range []string{"empty-left", "empty-right", "output-delimiter", "header", "encoding", "sheet", "db", "metrics-file", "config"} {
		assert.NotNil(t, joinCmd.Flags().Lookup(name), "flag --%s", name)
	}
}

func TestRunsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runsCmd, _, err := cmd.Find([]string{"runs"})
	require.NoError(t, err)

	dbFlag := runsCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)

	assert.NotNil(t, runsCmd.Flags().Lookup("run"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, _, err := execute(t, "", "--format", "invalid", "validate", "profile.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
