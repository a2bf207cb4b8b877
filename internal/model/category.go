package model

import "github.com/shopspring/decimal"

// SpendEntry is one logged amount. Day is 1-based and matches the position
// of the amount in the parent category's Spent list.
type SpendEntry struct {
	Amount decimal.Decimal `json:"amount"`
	Day    int             `json:"day"`
}

// Subcategory groups spend entries under a category.
type Subcategory struct {
	Name    string       `json:"name"`
	Entries []SpendEntry `json:"entries"`
}

// TotalSpent sums the subcategory's entries.
func (s Subcategory) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Category is a budgeted spending bucket. Spent holds one amount per logged
// day in order; Remaining always equals Budget minus the sum of Spent.
type Category struct {
	Name          string            `json:"name"`
	Budget        decimal.Decimal   `json:"budget"`
	Remaining     decimal.Decimal   `json:"remaining"`
	Spent         []decimal.Decimal `json:"spent"`
	Subcategories []Subcategory     `json:"subcategories"`
}

// TotalSpent sums the category's logged amounts.
func (c Category) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, a := range c.Spent {
		total = total.Add(a)
	}
	return total
}

// DaysLogged is the number of entries logged so far.
func (c Category) DaysLogged() int {
	return len(c.Spent)
}

// Complete reports whether the category has no logging days left.
func (c Category) Complete(totalDays int) bool {
	return len(c.Spent) >= totalDays
}

// OverBudget reports whether spending exceeded the budget.
func (c Category) OverBudget() bool {
	return c.Remaining.IsNegative()
}

// SubcategoryNames lists subcategory names in order.
func (c Category) SubcategoryNames() []string {
	names := make([]string, len(c.Subcategories))
	for i, s := range c.Subcategories {
		names[i] = s.Name
	}
	return names
}

// SubcategoryIndex returns the index of the named subcategory, or -1.
func (c Category) SubcategoryIndex(name string) int {
	for i, s := range c.Subcategories {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of c.
func (c Category) Clone() Category {
	out := c
	out.Spent = make([]decimal.Decimal, len(c.Spent))
	copy(out.Spent, c.Spent)
	out.Subcategories = make([]Subcategory, len(c.Subcategories))
	for i, s := range c.Subcategories {
		entries := make([]SpendEntry, len(s.Entries))
		copy(entries, s.Entries)
		out.Subcategories[i] = Subcategory{Name: s.Name, Entries: entries}
	}
	return out
}
