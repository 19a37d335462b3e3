package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "test.yaml", `
name: test_scenario
description: "Test scenario for validation"
left:
  - "1\tA"
right:
  - "1\tB"
options:
  left:
    keys: ["1"]
    unmatched: true
  empty: "-"
expect:
  - "1\tA\tB"
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, []string{"1\tA"}, scenario.Left)
	assert.Equal(t, []string{"1\tB"}, scenario.Right)
	require.NotNil(t, scenario.Options.Left)
	assert.True(t, scenario.Options.Left.Unmatched)
	assert.Equal(t, "-", scenario.Options.Empty)
	assert.Equal(t, []string{"1\tA\tB"}, scenario.Expect)
}

func TestLoadScenario_EmptyExpectIsNotNil(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "test.yaml", `
name: no_output
description: "Expects nothing"
left: ["1"]
right: ["2"]
expect: []
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.NotNil(t, scenario.Expect)
	assert.Empty(t, scenario.Expect)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "Missing name"
left: ["1"]
right: ["1"]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: no_description
left: ["1"]
right: ["1"]
`,
			wantErr: "description is required",
		},
		{
			name: "unknown field",
			content: `
name: typo
description: "Typo in expect"
left: ["1"]
right: ["1"]
expected: ["1"]
`,
			wantErr: "failed to parse YAML",
		},
		{
			name: "unknown option",
			content: `
name: typo
description: "Typo in options"
left: ["1"]
right: ["1"]
options:
  headers: true
`,
			wantErr: "failed to parse YAML",
		},
		{
			name: "expect and expect_error",
			content: `
name: both
description: "Both outcomes"
left: ["1"]
right: ["1"]
expect: ["1"]
expect_error: KEY_ARITY
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "bad output format",
			content: `
name: bad_output
description: "Output column without file"
left: ["1"]
right: ["1"]
options:
  output: "3.1"
`,
			wantErr: "options",
		},
		{
			name: "empty key list",
			content: `
name: no_keys
description: "Side without keys"
left: ["1"]
right: ["1"]
options:
  left:
    keys: []
`,
			wantErr: "options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "test.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDir_SortedByFileName(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", "name: second\ndescription: d\nleft: [\"1\"]\nright: [\"1\"]\n")
	writeScenario(t, dir, "a.yaml", "name: first\ndescription: d\nleft: [\"1\"]\nright: [\"1\"]\n")
	writeScenario(t, dir, "notes.txt", "ignored")

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadDir_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "name: same\ndescription: d\nleft: [\"1\"]\nright: [\"1\"]\n")
	writeScenario(t, dir, "b.yaml", "name: same\ndescription: d\nleft: [\"1\"]\nright: [\"1\"]\n")

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate scenario name")
}
