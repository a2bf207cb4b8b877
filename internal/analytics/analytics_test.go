package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type spend struct {
	cat, sub int
	amount   string
}

func buildSession(t *testing.T, days int, cats []planner.AddCategory, spends []spend) model.Session {
	t.Helper()
	s := model.NewSession()
	var err error
	for _, c := range cats {
		s, err = planner.Apply(s, c)
		require.NoError(t, err)
	}
	s, err = planner.Apply(s, planner.StartMonth{Days: days})
	require.NoError(t, err)
	for _, sp := range spends {
		s, err = planner.Apply(s, planner.LogSpend{Category: sp.cat, Subcategory: sp.sub, Amount: d(sp.amount)})
		require.NoError(t, err)
	}
	return s
}

func TestDailyAllowance(t *testing.T) {
	s := buildSession(t, 4,
		[]planner.AddCategory{{Name: "Dining", Budget: d("100"), Subcategories: []string{"Cafe"}}},
		[]spend{{0, 0, "20"}},
	)
	c := s.Categories[0]
	assert.Equal(t, 3, DaysLeft(c, s.TotalDays))
	assert.True(t, d("80").Div(d("3")).Equal(DailyAllowance(c, s.TotalDays)))
	assert.InDelta(t, 20.0, UsedPercent(c), 1e-9)

	s = buildSession(t, 1,
		[]planner.AddCategory{{Name: "Dining", Budget: d("100"), Subcategories: []string{"Cafe"}}},
		[]spend{{0, 0, "150"}},
	)
	c = s.Categories[0]
	assert.True(t, DailyAllowance(c, s.TotalDays).IsZero())
	assert.InDelta(t, 150.0, UsedPercent(c), 1e-9)
	assert.Equal(t, LevelOver, LevelFor(UsedPercent(c)))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelOK, LevelFor(0))
	assert.Equal(t, LevelOK, LevelFor(80))
	assert.Equal(t, LevelWarn, LevelFor(80.5))
	assert.Equal(t, LevelWarn, LevelFor(100))
	assert.Equal(t, LevelOver, LevelFor(100.01))
}

func TestRedZoneDominantSubcategory(t *testing.T) {
	s := buildSession(t, 10,
		[]planner.AddCategory{{Name: "Fun", Budget: d("100"), Subcategories: []string{"Games", "Books"}}},
		[]spend{{0, 0, "35"}, {0, 1, "5"}},
	)
	zones := RedZones(s)
	require.Len(t, zones, 1)
	assert.Equal(t, "Games", zones[0].Subcategory)
	assert.InDelta(t, 87.5, zones[0].Share, 1e-9)
	assert.False(t, zones[0].OverBudget)
}

func TestRedZoneOverBudgetFlagsEverySpendingSubcategory(t *testing.T) {
	s := buildSession(t, 10,
		[]planner.AddCategory{{Name: "Fun", Budget: d("10"), Subcategories: []string{"A", "B", "C", "D", "E"}}},
		[]spend{{0, 0, "3"}, {0, 1, "4"}, {0, 2, "2"}, {0, 3, "2"}},
	)
	zones := RedZones(s)
	require.Len(t, zones, 4)
	for i := 1; i < len(zones); i++ {
		assert.False(t, zones[i].Amount.GreaterThan(zones[i-1].Amount), "sorted descending")
	}
	assert.Equal(t, "B", zones[0].Subcategory)
	for _, z := range zones {
		assert.True(t, z.OverBudget)
	}
}

func TestRedZoneNoSpend(t *testing.T) {
	s := buildSession(t, 2,
		[]planner.AddCategory{{Name: "Fun", Budget: d("10"), Subcategories: []string{"A"}}},
		[]spend{{0, 0, "0"}},
	)
	assert.Empty(t, RedZones(s))
}

func TestTopSpending(t *testing.T) {
	subs := []string{"a", "b", "c", "d", "e", "f"}
	s := buildSession(t, 6,
		[]planner.AddCategory{
			{Name: "X", Budget: d("1000"), Subcategories: subs},
			{Name: "Y", Budget: d("1000"), Subcategories: subs},
		},
		[]spend{
			{0, 0, "1"}, {0, 1, "2"}, {0, 2, "3"}, {0, 3, "4"}, {0, 4, "5"}, {0, 5, "6"},
			{1, 0, "7"}, {1, 1, "8"}, {1, 2, "9"}, {1, 3, "10"}, {1, 4, "11"}, {1, 5, "0"},
		},
	)
	top := TopSpending(s, DefaultTopN)
	require.Len(t, top, 10)
	assert.True(t, d("11").Equal(top[0].Amount))
	assert.Equal(t, "Y", top[0].Category)
	assert.True(t, d("2").Equal(top[9].Amount))

	assert.Len(t, TopSpending(s, 0), 11, "zero-amount subcategory excluded")
}

func TestSuccessRateAndTotals(t *testing.T) {
	s := buildSession(t, 1,
		[]planner.AddCategory{
			{Name: "A", Budget: d("100"), Subcategories: []string{"x"}},
			{Name: "B", Budget: d("50"), Subcategories: []string{"y"}},
		},
		[]spend{{0, 0, "40"}, {1, 0, "60"}},
	)
	on, total := SuccessRate(s)
	assert.Equal(t, 1, on)
	assert.Equal(t, 2, total)

	tot := Totals(s)
	assert.True(t, d("150").Equal(tot.Budget))
	assert.True(t, d("100").Equal(tot.Spent))
	assert.True(t, d("50").Equal(tot.Remaining))
	assert.InDelta(t, 66.666, tot.SpentPercent, 0.001)
}

func TestCategoryShares(t *testing.T) {
	s := buildSession(t, 1,
		[]planner.AddCategory{
			{Name: "A", Budget: d("100"), Subcategories: []string{"x"}},
			{Name: "B", Budget: d("50"), Subcategories: []string{"y"}},
			{Name: "C", Budget: d("50"), Subcategories: []string{"z"}},
		},
		[]spend{{0, 0, "30"}, {1, 0, "10"}, {2, 0, "0"}},
	)
	shares := CategoryShares(s)
	require.Len(t, shares, 2)
	assert.InDelta(t, 75.0, shares[0].Share, 1e-9)
	assert.InDelta(t, 25.0, shares[1].Share, 1e-9)
}

func TestHistory(t *testing.T) {
	s := buildSession(t, 5,
		[]planner.AddCategory{{Name: "Food", Budget: d("100"), Subcategories: []string{"Lunch", "Dinner"}}},
		[]spend{{0, 1, "12"}, {0, 0, "8"}, {0, 1, "15"}},
	)
	c := s.Categories[0]
	assert.Equal(t, "Dinner", SubcategoryForDay(c, 1))
	assert.Equal(t, "Lunch", SubcategoryForDay(c, 2))
	assert.Equal(t, UnknownSubcategory, SubcategoryForDay(c, 4))

	rows := History(c)
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[2].Day)
	assert.Equal(t, "Dinner", rows[2].Subcategory)
	assert.True(t, d("15").Equal(rows[2].Amount))
}

func TestSummarize(t *testing.T) {
	s := buildSession(t, 2,
		[]planner.AddCategory{{Name: "Food", Budget: d("100"), Subcategories: []string{"Lunch", "Dinner", "Snacks"}}},
		[]spend{{0, 1, "30"}, {0, 0, "10"}},
	)
	sum := Summarize(s)
	assert.Equal(t, 2, sum.TotalDays)
	assert.Equal(t, 1, sum.OnBudget)
	require.Len(t, sum.Categories, 1)

	row := sum.Categories[0]
	assert.InDelta(t, 40.0, row.UsedPercent, 1e-9)
	require.Len(t, row.Subcategories, 2, "subcategories without entries are skipped")
	assert.Equal(t, "Dinner", row.Subcategories[0].Subcategory)
	assert.InDelta(t, 75.0, row.Subcategories[0].Share, 1e-9)
	assert.Len(t, sum.RedZones, 1)
	assert.Len(t, sum.TopSpending, 2)
}

func TestRedZoneThresholdIsStrict(t *testing.T) {
	s := buildSession(t, 10,
		[]planner.AddCategory{{Name: "Home", Budget: d("200"), Subcategories: []string{"Power", "Rent"}}},
		[]spend{{0, 0, "30"}, {0, 1, "70"}},
	)
	zones := RedZones(s)
	require.Len(t, zones, 1, "a subcategory at exactly 30% stays out")
	assert.Equal(t, "Rent", zones[0].Subcategory)
}

func TestRedZonesSortedAcrossCategories(t *testing.T) {
	s := buildSession(t, 10,
		[]planner.AddCategory{
			{Name: "Fun", Budget: d("100"), Subcategories: []string{"Games", "Books"}},
			{Name: "Home", Budget: d("100"), Subcategories: []string{"Rent", "Gas"}},
		},
		[]spend{{0, 0, "35"}, {0, 1, "5"}, {1, 0, "60"}, {1, 1, "40"}},
	)
	zones := RedZones(s)
	require.Len(t, zones, 3)
	got := []string{zones[0].Subcategory, zones[1].Subcategory, zones[2].Subcategory}
	assert.Equal(t, []string{"Rent", "Gas", "Games"}, got)
}
