package analytics

import "github.com/theirongolddev/mbudget/internal/model"

// SubcategoryForDay finds the subcategory that logged the given day, or
// UnknownSubcategory when none did.
func SubcategoryForDay(c model.Category, day int) string {
	for _, sub := range c.Subcategories {
		for _, e := range sub.Entries {
			if e.Day == day {
				return sub.Name
			}
		}
	}
	return UnknownSubcategory
}

// History lists the category's logged days in order.
func History(c model.Category) []model.HistoryRow {
	rows := make([]model.HistoryRow, len(c.Spent))
	for i, amount := range c.Spent {
		day := i + 1
		rows[i] = model.HistoryRow{
			Day:         day,
			Subcategory: SubcategoryForDay(c, day),
			Amount:      amount,
		}
	}
	return rows
}

// Level buckets budget usage for coloring progress indicators.
type Level int

const (
	LevelOK Level = iota
	LevelWarn
	LevelOver
)

// LevelFor classifies a used percentage: above 100 is over, above 80 warns.
func LevelFor(usedPercent float64) Level {
	switch {
	case usedPercent > 100:
		return LevelOver
	case usedPercent > 80:
		return LevelWarn
	default:
		return LevelOK
	}
}
