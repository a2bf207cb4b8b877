package model

import "github.com/shopspring/decimal"

// Totals holds the session-wide money figures.
type Totals struct {
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// SpentPercent is Spent as a percentage of Budget (0 when Budget is 0).
	SpentPercent float64
}

// SpendingArea is one subcategory ranked by how much was spent in it.
type SpendingArea struct {
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	// Share is the subcategory's percentage of its category's spend.
	Share float64
}

// RedZone flags a subcategory that dominates its category's spend or sits
// in a category that went over budget.
type RedZone struct {
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	Share       float64
	OverBudget  bool
}

// CategoryShare is a category's portion of total session spend.
type CategoryShare struct {
	Name   string
	Amount decimal.Decimal
	Share  float64
}

// HistoryRow is one logged day of a category, resolved to its subcategory.
type HistoryRow struct {
	Day         int
	Subcategory string
	Amount      decimal.Decimal
}

// CategoryBreakdown holds per-category figures for the summary view.
type CategoryBreakdown struct {
	Name          string
	Budget        decimal.Decimal
	Spent         decimal.Decimal
	Remaining     decimal.Decimal
	UsedPercent   float64
	DaysLogged    int
	OnBudget      bool
	Subcategories []SpendingArea
}

// Summary is the full end-of-month report.
type Summary struct {
	TotalDays     int
	Totals        Totals
	OnBudget      int
	CategoryCount int
	Categories    []CategoryBreakdown
	Shares        []CategoryShare
	TopSpending   []SpendingArea
	RedZones      []RedZone
}
