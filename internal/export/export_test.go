package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
)

func session(t *testing.T) model.Session {
	t.Helper()
	s := model.NewSession()
	s = planner.Reduce(s, planner.AddCategory{
		Name:          "Groceries",
		Budget:        decimal.NewFromInt(300),
		Subcategories: []string{"Food, Drinks", "Household"},
	})
	s, err := planner.Apply(s, planner.StartMonth{Days: 3})
	require.NoError(t, err)
	for _, sp := range []planner.LogSpend{
		{Category: 0, Subcategory: 0, Amount: decimal.NewFromInt(50)},
		{Category: 0, Subcategory: 1, Amount: decimal.RequireFromString("12.5")},
	} {
		s, err = planner.Apply(s, sp)
		require.NoError(t, err)
	}
	return s
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, session(t)))

	want := "Category,Subcategory,Day,Amount\n" +
		"Groceries,\"Food, Drinks\",1,50\n" +
		"Groceries,Household,2,12.5\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.NewSession()))
	assert.Equal(t, "Category,Subcategory,Day,Amount\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, session(t)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.EqualValues(t, 3, got["totalDays"])
	assert.EqualValues(t, 300, got["totalBudget"])
	assert.EqualValues(t, 62.5, got["totalSpent"])
	assert.EqualValues(t, 237.5, got["totalRemaining"])

	cats := got["categories"].([]any)
	require.Len(t, cats, 1)
	cat := cats[0].(map[string]any)
	assert.Equal(t, "Groceries", cat["name"])
	subs := cat["subcategories"].([]any)
	require.Len(t, subs, 2)
	household := subs[1].(map[string]any)
	assert.EqualValues(t, 12.5, household["spent"])
	entries := household["entries"].([]any)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].(map[string]any)["day"])

	assert.Contains(t, buf.String(), "\n  \"totalDays\": 3,")
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 3, 7, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "budget-report-2026-03-07.csv", FileName(FormatCSV, now))
	assert.Equal(t, "budget-report-2026-03-07.json", FileName(FormatJSON, now))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	path, err := ToFile(dir, FormatCSV, session(t), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "budget-report-2026-01-02.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Groceries,Household,2,12.5")
}
