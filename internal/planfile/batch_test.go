package planfile

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/mbudget/internal/model"
)

const cleanPlan = `
days = 1

[[category]]
name = "Rent"
budget = "900"
subcategories = ["Rent"]

[[spend]]
category = "Rent"
subcategory = "Rent"
amount = "900"
`

func writePlans(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestExpand(t *testing.T) {
	dir := writePlans(t, map[string]string{
		"2026-02.toml": cleanPlan,
		"2026-01.toml": cleanPlan,
		"notes.txt":    "ignored",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.toml"), 0o700))

	paths, err := Expand([]string{dir, filepath.Join(dir, "2026-01.toml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2026-01.toml"),
		filepath.Join(dir, "2026-02.toml"),
	}, paths)

	_, err = Expand([]string{filepath.Join(dir, "missing.toml")})
	assert.Error(t, err)
}

func TestReplayAllKeepsOrder(t *testing.T) {
	dir := writePlans(t, map[string]string{
		"a.toml": cleanPlan,
		"b.toml": samplePlan,
		"c.toml": "days = \"many\"",
	})
	paths, err := Expand([]string{dir})
	require.NoError(t, err)

	var calls atomic.Int64
	results := ReplayAll(paths, func(current, total int) {
		calls.Add(1)
		assert.Equal(t, 3, total)
	})
	require.Len(t, results, 3)
	assert.Equal(t, int64(3), calls.Load())

	assert.Equal(t, paths[0], results[0].Path)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, model.PhaseSummary, results[0].Session.Phase)
	assert.Empty(t, results[0].Rejected)

	assert.NoError(t, results[1].Err)
	assert.Len(t, results[1].Rejected, 2)

	assert.Error(t, results[2].Err)
	assert.Equal(t, model.PhaseSetup, results[2].Session.Phase)
}

func TestReplayAllEmpty(t *testing.T) {
	assert.Empty(t, ReplayAll(nil, nil))
}
