package planfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
)

const samplePlan = `
days = 2

[[category]]
name = "Groceries"
budget = "300"
subcategories = ["Food", "Household"]

[[category]]
name = "Dining"
budget = 80.5
subcategories = ["Cafe"]

[[spend]]
category = "groceries"
subcategory = "food"
amount = "50.25"

[[spend]]
category = "Dining"
subcategory = "Cafe"
amount = 20

[[spend]]
category = "Dining"
subcategory = "Bar"
amount = 5

[[spend]]
category = "Groceries"
subcategory = "Household"
amount = "-3"
`

func TestDecodeAndReplay(t *testing.T) {
	p, err := Decode(strings.NewReader(samplePlan))
	require.NoError(t, err)
	require.Len(t, p.Categories, 2)
	assert.True(t, decimal.RequireFromString("80.5").Equal(p.Categories[1].Budget))

	s, rejected := Replay(p)
	assert.Equal(t, model.PhaseRunning, s.Phase)
	assert.Equal(t, 2, s.TotalDays)
	assert.True(t, decimal.RequireFromString("249.75").Equal(s.Categories[0].Remaining))
	assert.True(t, decimal.RequireFromString("60.5").Equal(s.Categories[1].Remaining))

	require.Len(t, rejected, 2)
	assert.ErrorIs(t, rejected[0], planner.ErrUnknownSubcategory)
	assert.ErrorIs(t, rejected[1], planner.ErrNegativeAmount)
	assert.Contains(t, rejected[1].Error(), "spend[3]")
}

func TestReplayReachesSummary(t *testing.T) {
	p := Plan{
		Days:       1,
		Categories: []Category{{Name: "Rent", Budget: decimal.NewFromInt(900), Subcategories: []string{"Flat"}}},
		Spends:     []Spend{{Category: "Rent", Subcategory: "Flat", Amount: decimal.NewFromInt(900)}},
	}
	s, rejected := Replay(p)
	assert.Empty(t, rejected)
	assert.Equal(t, model.PhaseSummary, s.Phase)
}

func TestReplayInvalidStart(t *testing.T) {
	s, rejected := Replay(Plan{Days: 0})
	assert.Equal(t, model.PhaseSetup, s.Phase)
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], planner.ErrInvalidDays)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("days = 3\nmonths = 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "months")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte(samplePlan), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Days)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
