package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjoin/internal/store"
	"github.com/roach88/mjoin/internal/testutil"
)

// seedLedger records one finished run with the given output lines.
func seedLedger(t *testing.T, path, id string, lines ...string) {
	t.Helper()
	st, err := store.Open(path, store.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(id)))
	require.NoError(t, err)
	defer st.Close()

	run, err := st.Begin(context.Background(), "left.tsv", "right.tsv")
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, run.Append(l))
	}
	require.NoError(t, run.Finish(store.Summary{Matched: int64(len(lines)), Emitted: int64(len(lines))}, nil))
}

func TestRuns_MissingDatabase(t *testing.T) {
	stdout, _, err := execute(t, "", "runs", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "database not found")
}

func TestRuns_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "", "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestRuns_EmptyLedger(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := execute(t, "", "runs", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded\n", stdout)
}

func TestRuns_ListJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	seedLedger(t, db, "run-a", "k\tv")

	stdout, stderr, err := execute(t, "", "--format", "json", "runs", "--db", db)
	require.NoError(t, err, stderr)

	var resp struct {
		Status string     `json:"status"`
		Data   RunsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, "run-a", resp.Data.Runs[0].ID)
	assert.Equal(t, "left.tsv", resp.Data.Runs[0].Left)
	assert.Equal(t, int64(1), resp.Data.Runs[0].Emitted)
}

func TestRuns_PrintRunOutput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	seedLedger(t, db, "run-a", "a\t1", "b\t2")

	stdout, stderr, err := execute(t, "", "runs", "--db", db, "--run", "run-a")
	require.NoError(t, err, stderr)
	assert.Equal(t, "a\t1\nb\t2\n", stdout)

	stdout, _, err = execute(t, "", "--format", "json", "runs", "--db", db, "--run", "run-a")
	require.NoError(t, err)
	var resp struct {
		Data RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, []string{"a\t1", "b\t2"}, resp.Data.Lines)
	assert.Equal(t, "run-a", resp.Data.Run.ID)
}

func TestRuns_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	seedLedger(t, db, "run-a")

	_, _, err := execute(t, "", "runs", "--db", db, "--run", "run-zzz")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found")
}
