package server

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mbudget/internal/analytics"
	"github.com/theirongolddev/mbudget/internal/model"
)

func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func money2(d decimal.Decimal) json.Number {
	return json.Number(d.Round(2).StringFixed(2))
}

// Totals is the session-wide money snapshot carried by status and events.
type Totals struct {
	Phase     string      `json:"phase"`
	TotalDays int         `json:"total_days"`
	Budget    json.Number `json:"budget"`
	Spent     json.Number `json:"spent"`
	Remaining json.Number `json:"remaining"`
}

func totalsOf(s model.Session) Totals {
	t := analytics.Totals(s)
	return Totals{
		Phase:     s.Phase.String(),
		TotalDays: s.TotalDays,
		Budget:    num(t.Budget),
		Spent:     num(t.Spent),
		Remaining: num(t.Remaining),
	}
}

// Event is emitted whenever an action changes the session.
type Event struct {
	ID          int64       `json:"id"`
	Type        string      `json:"type"`
	Timestamp   time.Time   `json:"timestamp"`
	Category    string      `json:"category,omitempty"`
	Subcategory string      `json:"subcategory,omitempty"`
	Day         int         `json:"day,omitempty"`
	Amount      json.Number `json:"amount,omitempty"`
	Totals      Totals      `json:"totals"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Actions         int64     `json:"actions"`
	Rejections      int64     `json:"rejections"`
	Totals          Totals    `json:"totals"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

type entryView struct {
	Amount json.Number `json:"amount"`
	Day    int         `json:"day"`
}

type subcategoryView struct {
	Name    string      `json:"name"`
	Spent   json.Number `json:"spent"`
	Entries []entryView `json:"entries"`
}

type categoryView struct {
	Name           string            `json:"name"`
	Budget         json.Number       `json:"budget"`
	Remaining      json.Number       `json:"remaining"`
	Spent          json.Number       `json:"spent"`
	DaysLogged     int               `json:"days_logged"`
	DaysLeft       int               `json:"days_left"`
	DailyAllowance json.Number       `json:"daily_allowance"`
	UsedPercent    float64           `json:"used_percent"`
	Subcategories  []subcategoryView `json:"subcategories"`
}

type sessionView struct {
	Totals
	Categories []categoryView `json:"categories"`
}

func sessionViewOf(s model.Session) sessionView {
	v := sessionView{Totals: totalsOf(s), Categories: make([]categoryView, 0, len(s.Categories))}
	for _, c := range s.Categories {
		cv := categoryView{
			Name:           c.Name,
			Budget:         num(c.Budget),
			Remaining:      num(c.Remaining),
			Spent:          num(c.TotalSpent()),
			DaysLogged:     c.DaysLogged(),
			DaysLeft:       analytics.DaysLeft(c, s.TotalDays),
			DailyAllowance: money2(analytics.DailyAllowance(c, s.TotalDays)),
			UsedPercent:    analytics.UsedPercent(c),
			Subcategories:  make([]subcategoryView, 0, len(c.Subcategories)),
		}
		for _, sub := range c.Subcategories {
			sv := subcategoryView{Name: sub.Name, Spent: num(sub.TotalSpent()), Entries: make([]entryView, 0, len(sub.Entries))}
			for _, e := range sub.Entries {
				sv.Entries = append(sv.Entries, entryView{Amount: num(e.Amount), Day: e.Day})
			}
			cv.Subcategories = append(cv.Subcategories, sv)
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}

type areaView struct {
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory"`
	Amount      json.Number `json:"amount"`
	Share       float64     `json:"share"`
	OverBudget  bool        `json:"over_budget,omitempty"`
}

func areasOf(areas []model.SpendingArea) []areaView {
	out := make([]areaView, 0, len(areas))
	for _, a := range areas {
		out = append(out, areaView{Category: a.Category, Subcategory: a.Subcategory, Amount: num(a.Amount), Share: a.Share})
	}
	return out
}

func redZonesOf(zones []model.RedZone) []areaView {
	out := make([]areaView, 0, len(zones))
	for _, z := range zones {
		out = append(out, areaView{
			Category:    z.Category,
			Subcategory: z.Subcategory,
			Amount:      num(z.Amount),
			Share:       z.Share,
			OverBudget:  z.OverBudget,
		})
	}
	return out
}

type breakdownView struct {
	Name          string      `json:"name"`
	Budget        json.Number `json:"budget"`
	Spent         json.Number `json:"spent"`
	Remaining     json.Number `json:"remaining"`
	UsedPercent   float64     `json:"used_percent"`
	OnBudget      bool        `json:"on_budget"`
	Subcategories []areaView  `json:"subcategories"`
}

type shareView struct {
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
	Share  float64     `json:"share"`
}

type summaryView struct {
	Totals
	SpentPercent float64         `json:"spent_percent"`
	OnBudget     int             `json:"on_budget"`
	Categories   int             `json:"category_count"`
	Breakdown    []breakdownView `json:"breakdown"`
	Shares       []shareView     `json:"shares"`
	TopSpending  []areaView      `json:"top_spending"`
	RedZones     []areaView      `json:"red_zones"`
}

func summaryViewOf(s model.Session) summaryView {
	sum := analytics.Summarize(s)
	v := summaryView{
		Totals:       totalsOf(s),
		SpentPercent: sum.Totals.SpentPercent,
		OnBudget:     sum.OnBudget,
		Categories:   sum.CategoryCount,
		Breakdown:    make([]breakdownView, 0, len(sum.Categories)),
		Shares:       make([]shareView, 0, len(sum.Shares)),
		TopSpending:  areasOf(sum.TopSpending),
		RedZones:     redZonesOf(sum.RedZones),
	}
	for _, b := range sum.Categories {
		v.Breakdown = append(v.Breakdown, breakdownView{
			Name:          b.Name,
			Budget:        num(b.Budget),
			Spent:         num(b.Spent),
			Remaining:     num(b.Remaining),
			UsedPercent:   b.UsedPercent,
			OnBudget:      b.OnBudget,
			Subcategories: areasOf(b.Subcategories),
		})
	}
	for _, sh := range sum.Shares {
		v.Shares = append(v.Shares, shareView{Name: sh.Name, Amount: num(sh.Amount), Share: sh.Share})
	}
	return v
}

type historyView struct {
	Day         int         `json:"day"`
	Subcategory string      `json:"subcategory"`
	Amount      json.Number `json:"amount"`
}

// Request bodies.

type addCategoryRequest struct {
	Name          string          `json:"name"`
	Budget        decimal.Decimal `json:"budget"`
	Subcategories []string        `json:"subcategories"`
}

type startMonthRequest struct {
	Days int `json:"days"`
}

type logSpendRequest struct {
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Amount      decimal.Decimal `json:"amount"`
}
