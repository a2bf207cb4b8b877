// Package planner implements the budgeting phase state machine.
//
// Every user action is a value implementing Action. Apply runs the action
// against a copy of the session and returns either the next session or the
// unchanged input together with the reason it was rejected.
package planner

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mbudget/internal/model"
)

// Action is a user intent applied to a session.
type Action interface {
	// Kind is a short stable name used in logs and events.
	Kind() string
	apply(s *model.Session) error
}

// Apply returns the session that results from a. The input is never mutated.
// On rejection the original session is returned with a non-nil error.
func Apply(s model.Session, a Action) (model.Session, error) {
	next := s.Clone()
	if err := a.apply(&next); err != nil {
		return s, err
	}
	return next, nil
}

// Reduce is Apply with rejections silently ignored.
func Reduce(s model.Session, a Action) model.Session {
	next, _ := Apply(s, a)
	return next
}

// AddCategory registers a budget category during setup.
type AddCategory struct {
	Name          string
	Budget        decimal.Decimal
	Subcategories []string
}

func (AddCategory) Kind() string { return "add_category" }

func (a AddCategory) apply(s *model.Session) error {
	if s.Phase != model.PhaseSetup {
		return fmt.Errorf("add category in %s phase: %w", s.Phase, ErrWrongPhase)
	}
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return ErrEmptyName
	}
	if !a.Budget.IsPositive() {
		return ErrInvalidBudget
	}
	subs := NormalizeSubcategories(a.Subcategories)
	if len(subs) == 0 {
		return ErrNoSubcategories
	}
	if s.CategoryIndex(name) >= 0 {
		return fmt.Errorf("%q: %w", name, ErrDuplicateCategory)
	}

	cat := model.Category{
		Name:          name,
		Budget:        a.Budget,
		Remaining:     a.Budget,
		Spent:         []decimal.Decimal{},
		Subcategories: make([]model.Subcategory, len(subs)),
	}
	for i, sub := range subs {
		cat.Subcategories[i] = model.Subcategory{Name: sub, Entries: []model.SpendEntry{}}
	}
	s.Categories = append(s.Categories, cat)
	return nil
}

// StartMonth fixes the number of days and moves setup into running.
type StartMonth struct {
	Days int
}

func (StartMonth) Kind() string { return "start_month" }

func (a StartMonth) apply(s *model.Session) error {
	if s.Phase != model.PhaseSetup {
		return fmt.Errorf("start month in %s phase: %w", s.Phase, ErrWrongPhase)
	}
	if a.Days <= 0 {
		return ErrInvalidDays
	}
	if len(s.Categories) == 0 {
		return ErrNoCategories
	}
	s.TotalDays = a.Days
	s.Phase = model.PhaseRunning
	return nil
}

// LogSpend records one day's spend against a category and one of its
// subcategories. Indices refer to the session's current ordering.
type LogSpend struct {
	Category    int
	Subcategory int
	Amount      decimal.Decimal
}

func (LogSpend) Kind() string { return "log_spend" }

func (a LogSpend) apply(s *model.Session) error {
	if a.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if s.Phase != model.PhaseRunning {
		return fmt.Errorf("log spend in %s phase: %w", s.Phase, ErrWrongPhase)
	}
	if a.Category < 0 || a.Category >= len(s.Categories) {
		return fmt.Errorf("category #%d: %w", a.Category, ErrUnknownCategory)
	}
	cat := &s.Categories[a.Category]
	if a.Subcategory < 0 || a.Subcategory >= len(cat.Subcategories) {
		return fmt.Errorf("%s subcategory #%d: %w", cat.Name, a.Subcategory, ErrUnknownSubcategory)
	}
	if cat.Complete(s.TotalDays) {
		return fmt.Errorf("%s: %w", cat.Name, ErrCategoryComplete)
	}

	cat.Spent = append(cat.Spent, a.Amount)
	cat.Remaining = cat.Remaining.Sub(a.Amount)
	sub := &cat.Subcategories[a.Subcategory]
	sub.Entries = append(sub.Entries, model.SpendEntry{Amount: a.Amount, Day: len(cat.Spent)})

	if s.AllComplete() {
		s.Phase = model.PhaseSummary
	}
	return nil
}

// LogSpendNamed is LogSpend addressed by category and subcategory name,
// matched case-insensitively against the session at apply time.
type LogSpendNamed struct {
	Category    string
	Subcategory string
	Amount      decimal.Decimal
}

func (LogSpendNamed) Kind() string { return "log_spend" }

func (a LogSpendNamed) apply(s *model.Session) error {
	ls, err := ResolveSpend(*s, a.Category, a.Subcategory, a.Amount)
	if err != nil {
		return err
	}
	return ls.apply(s)
}

// Reset discards everything and returns to an empty setup.
type Reset struct{}

func (Reset) Kind() string { return "reset" }

func (Reset) apply(s *model.Session) error {
	*s = model.NewSession()
	return nil
}

// ResolveSpend builds a LogSpend from category and subcategory names.
// Name matching is case-insensitive.
func ResolveSpend(s model.Session, category, subcategory string, amount decimal.Decimal) (LogSpend, error) {
	ci := -1
	for i, c := range s.Categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(category)) {
			ci = i
			break
		}
	}
	if ci < 0 {
		return LogSpend{}, fmt.Errorf("%q: %w", category, ErrUnknownCategory)
	}
	si := -1
	for i, sub := range s.Categories[ci].Subcategories {
		if strings.EqualFold(sub.Name, strings.TrimSpace(subcategory)) {
			si = i
			break
		}
	}
	if si < 0 {
		return LogSpend{}, fmt.Errorf("%s/%q: %w", s.Categories[ci].Name, subcategory, ErrUnknownSubcategory)
	}
	return LogSpend{Category: ci, Subcategory: si, Amount: amount}, nil
}

// NormalizeSubcategories trims names and drops empty and duplicate entries,
// keeping the first occurrence.
func NormalizeSubcategories(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ParseSubcategories splits a comma separated list and normalizes it.
func ParseSubcategories(list string) []string {
	return NormalizeSubcategories(strings.Split(list, ","))
}
