// Package model defines domain types for mbudget sessions and categories.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Phase is the lifecycle stage of a budgeting session.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseRunning
	PhaseSummary
)

// String returns the lowercase phase name used in logs and the HTTP API.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseRunning:
		return "running"
	case PhaseSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Session is the whole planner state. TotalDays is zero until the month starts.
type Session struct {
	Phase      Phase      `json:"phase"`
	TotalDays  int        `json:"totalDays"`
	Categories []Category `json:"categories"`
}

// NewSession returns an empty session in the setup phase.
func NewSession() Session {
	return Session{Phase: PhaseSetup, Categories: []Category{}}
}

// TotalBudget sums the budgets of all categories.
func (s Session) TotalBudget() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Categories {
		total = total.Add(c.Budget)
	}
	return total
}

// TotalSpent sums every amount logged across all categories.
func (s Session) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Categories {
		total = total.Add(c.TotalSpent())
	}
	return total
}

// TotalRemaining is TotalBudget minus TotalSpent; negative when over budget.
func (s Session) TotalRemaining() decimal.Decimal {
	return s.TotalBudget().Sub(s.TotalSpent())
}

// AllComplete reports whether every category has logged TotalDays entries.
// An empty session is never complete.
func (s Session) AllComplete() bool {
	if len(s.Categories) == 0 || s.TotalDays <= 0 {
		return false
	}
	for _, c := range s.Categories {
		if !c.Complete(s.TotalDays) {
			return false
		}
	}
	return true
}

// CategoryIndex returns the index of the named category, or -1.
// Names match case-insensitively after trimming.
func (s Session) CategoryIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, c := range s.Categories {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can modify it without aliasing s.
func (s Session) Clone() Session {
	out := Session{Phase: s.Phase, TotalDays: s.TotalDays}
	out.Categories = make([]Category, len(s.Categories))
	for i, c := range s.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}
