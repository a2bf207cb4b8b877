// Package analytics computes derived budget figures from a session snapshot.
// Every function is pure and recomputed on demand.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mbudget/internal/model"
)

const (
	// RedZoneThreshold is the share of a category's spend (percent) above
	// which a subcategory is flagged.
	RedZoneThreshold = 30.0

	// DefaultTopN is how many spending areas the summary ranks.
	DefaultTopN = 10

	// UnknownSubcategory labels a logged day no subcategory claims.
	UnknownSubcategory = "Unknown"
)

var hundred = decimal.NewFromInt(100)

// percent returns part/whole*100, or 0 when whole is zero.
func percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// DaysLeft is how many days the category can still log.
func DaysLeft(c model.Category, totalDays int) int {
	left := totalDays - c.DaysLogged()
	if left < 0 {
		return 0
	}
	return left
}

// DailyAllowance spreads the remaining budget over the days left. It is zero
// once no days remain and negative when the category is already over budget.
func DailyAllowance(c model.Category, totalDays int) decimal.Decimal {
	left := DaysLeft(c, totalDays)
	if left == 0 {
		return decimal.Zero
	}
	return c.Remaining.Div(decimal.NewFromInt(int64(left)))
}

// UsedPercent is the share of the budget consumed so far. It exceeds 100
// when the category is over budget.
func UsedPercent(c model.Category) float64 {
	return percent(c.Budget.Sub(c.Remaining), c.Budget)
}

// CategoryTotal sums the category's logged amounts.
func CategoryTotal(c model.Category) decimal.Decimal {
	return c.TotalSpent()
}

// SubcategoryTotal sums a subcategory's entries.
func SubcategoryTotal(s model.Subcategory) decimal.Decimal {
	return s.TotalSpent()
}

// SubcategoryShare is the subcategory's percentage of its category's spend.
func SubcategoryShare(s model.Subcategory, c model.Category) float64 {
	return percent(s.TotalSpent(), c.TotalSpent())
}

// SuccessRate counts categories that ended at or under budget.
func SuccessRate(s model.Session) (onBudget, total int) {
	for _, c := range s.Categories {
		if !c.OverBudget() {
			onBudget++
		}
	}
	return onBudget, len(s.Categories)
}

// Totals computes the session-wide money figures.
func Totals(s model.Session) model.Totals {
	t := model.Totals{
		Budget: s.TotalBudget(),
		Spent:  s.TotalSpent(),
	}
	t.Remaining = t.Budget.Sub(t.Spent)
	t.SpentPercent = percent(t.Spent, t.Budget)
	return t
}

// RedZones flags subcategories with spend that either exceeds
// RedZoneThreshold percent of their category or belong to an over-budget
// category. Results are sorted by amount, largest first.
func RedZones(s model.Session) []model.RedZone {
	var zones []model.RedZone
	for _, c := range s.Categories {
		catTotal := c.TotalSpent()
		if !catTotal.IsPositive() {
			continue
		}
		for _, sub := range c.Subcategories {
			subTotal := sub.TotalSpent()
			if !subTotal.IsPositive() {
				continue
			}
			share := percent(subTotal, catTotal)
			if share > RedZoneThreshold || c.OverBudget() {
				zones = append(zones, model.RedZone{
					Category:    c.Name,
					Subcategory: sub.Name,
					Amount:      subTotal,
					Share:       share,
					OverBudget:  c.OverBudget(),
				})
			}
		}
	}

	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].Amount.GreaterThan(zones[j].Amount)
	})
	return zones
}

// TopSpending ranks every subcategory with positive spend by amount and
// keeps the first n. n <= 0 means no limit.
func TopSpending(s model.Session, n int) []model.SpendingArea {
	var areas []model.SpendingArea
	for _, c := range s.Categories {
		for _, sub := range c.Subcategories {
			total := sub.TotalSpent()
			if !total.IsPositive() {
				continue
			}
			areas = append(areas, model.SpendingArea{
				Category:    c.Name,
				Subcategory: sub.Name,
				Amount:      total,
				Share:       SubcategoryShare(sub, c),
			})
		}
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Amount.GreaterThan(areas[j].Amount)
	})
	if n > 0 && len(areas) > n {
		areas = areas[:n]
	}
	return areas
}

// CategoryShares returns each category's spend as a share of the session
// total. Categories with no spend are omitted.
func CategoryShares(s model.Session) []model.CategoryShare {
	total := s.TotalSpent()
	var shares []model.CategoryShare
	for _, c := range s.Categories {
		spent := c.TotalSpent()
		if !spent.IsPositive() {
			continue
		}
		shares = append(shares, model.CategoryShare{
			Name:   c.Name,
			Amount: spent,
			Share:  percent(spent, total),
		})
	}
	return shares
}

// Breakdown computes the per-category summary rows. Subcategories that never
// logged an entry are left out; they are sorted by amount, largest first.
func Breakdown(s model.Session) []model.CategoryBreakdown {
	rows := make([]model.CategoryBreakdown, 0, len(s.Categories))
	for _, c := range s.Categories {
		spent := c.TotalSpent()
		row := model.CategoryBreakdown{
			Name:        c.Name,
			Budget:      c.Budget,
			Spent:       spent,
			Remaining:   c.Remaining,
			UsedPercent: percent(spent, c.Budget),
			DaysLogged:  c.DaysLogged(),
			OnBudget:    !c.OverBudget(),
		}
		for _, sub := range c.Subcategories {
			if len(sub.Entries) == 0 {
				continue
			}
			row.Subcategories = append(row.Subcategories, model.SpendingArea{
				Category:    c.Name,
				Subcategory: sub.Name,
				Amount:      sub.TotalSpent(),
				Share:       SubcategoryShare(sub, c),
			})
		}
		sort.SliceStable(row.Subcategories, func(i, j int) bool {
			return row.Subcategories[i].Amount.GreaterThan(row.Subcategories[j].Amount)
		})
		rows = append(rows, row)
	}
	return rows
}

// Summarize builds the full report for a session.
func Summarize(s model.Session) model.Summary {
	onBudget, count := SuccessRate(s)
	return model.Summary{
		TotalDays:     s.TotalDays,
		Totals:        Totals(s),
		OnBudget:      onBudget,
		CategoryCount: count,
		Categories:    Breakdown(s),
		Shares:        CategoryShares(s),
		TopSpending:   TopSpending(s, DefaultTopN),
		RedZones:      RedZones(s),
	}
}
