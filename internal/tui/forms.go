package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mbudget/internal/planner"
	"github.com/theirongolddev/mbudget/internal/tui/components"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formCategory
	formSubcategories
	formStart
	formReset
)

var formTitles = map[formKind]string{
	formCategory:      "New category",
	formSubcategories: "Subcategories",
	formStart:         "Start the month",
	formReset:         "New month",
}

// formValues backs the huh fields of whichever form is open.
type formValues struct {
	name    string
	budget  string
	subs    string
	days    string
	confirm bool

	// template that pre-filled subs, if any
	suggested string
}

var errBudgetFormat = errors.New("enter a positive amount like 450 or 89.90")

func parseBudget(s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, errBudgetFormat
	}
	return d, nil
}

// parseAmount accepts a comma as the decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

func (a App) openForm(kind formKind) (tea.Model, tea.Cmd) {
	v := a.vals
	var group *huh.Group

	switch kind {
	case formCategory:
		*v = formValues{}
		group = huh.NewGroup(
			huh.NewInput().
				Title("Category name").
				Placeholder("Groceries").
				Value(&v.name).
				Validate(a.validateCategoryName),
			huh.NewInput().
				Title("Monthly budget").
				Placeholder("450.00").
				Value(&v.budget).
				Validate(func(s string) error {
					_, err := parseBudget(s)
					return err
				}),
		)

	case formSubcategories:
		v.subs, v.suggested = a.suggestSubcategories(v.name)
		desc := "Comma separated"
		if v.suggested != "" {
			desc = "Suggested from the " + v.suggested + " template. Comma separated"
		}
		group = huh.NewGroup(
			huh.NewInput().
				Title("Subcategories for " + strings.TrimSpace(v.name)).
				Description(desc).
				Placeholder("Rent, Bills, Snacks").
				Value(&v.subs).
				Validate(func(s string) error {
					if len(planner.ParseSubcategories(s)) == 0 {
						return planner.ErrNoSubcategories
					}
					return nil
				}),
		)

	case formStart:
		*v = formValues{days: strconv.Itoa(a.cfg.General.DefaultDays)}
		group = huh.NewGroup(
			huh.NewInput().
				Title("Days in this month").
				Description("Each category logs one amount per day").
				Value(&v.days).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
						return planner.ErrInvalidDays
					}
					return nil
				}),
		)

	case formReset:
		*v = formValues{}
		group = huh.NewGroup(
			huh.NewConfirm().
				Title("Start over with a new month?").
				Description("All categories and logged spending are discarded.").
				Affirmative("Reset").
				Negative("Cancel").
				Value(&v.confirm),
		)

	default:
		return a, nil
	}

	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))

	a.formKind = kind
	a.form = huh.NewForm(group).
		WithKeyMap(km).
		WithShowHelp(true).
		WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) validateCategoryName(s string) error {
	if strings.TrimSpace(s) == "" {
		return planner.ErrEmptyName
	}
	if a.session.CategoryIndex(s) >= 0 {
		return planner.ErrDuplicateCategory
	}
	return nil
}

// suggestSubcategories pre-fills the subcategory list from the first template
// matching the category name.
func (a App) suggestSubcategories(name string) (list, template string) {
	matches, err := a.templates.Suggest(name)
	if err != nil {
		a.log.Warn().Err(err).Str("category", name).Msg("template lookup failed")
		return "", ""
	}
	if len(matches) == 0 {
		return "", ""
	}
	return strings.Join(matches[0].Subcategories, ", "), matches[0].Name
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.submitForm()
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	kind := a.formKind
	v := a.vals
	a.closeForm()

	switch kind {
	case formCategory:
		// Name and budget are in; ask for subcategories next.
		return a.openForm(formSubcategories)

	case formSubcategories:
		budget, err := parseBudget(v.budget)
		if err != nil {
			a.setError(err.Error())
			return a, nil
		}
		act := planner.AddCategory{
			Name:          v.name,
			Budget:        budget,
			Subcategories: planner.ParseSubcategories(v.subs),
		}
		if a.dispatch(act) {
			a.setStatus("Added " + strings.TrimSpace(v.name))
		}

	case formStart:
		days, err := strconv.Atoi(strings.TrimSpace(v.days))
		if err != nil {
			days = 0
		}
		if a.dispatch(planner.StartMonth{Days: days}) {
			a.setStatus("Month started")
			return a, a.enterRunning()
		}

	case formReset:
		if v.confirm && a.dispatch(planner.Reset{}) {
			a.catCursor, a.subCursor, a.scroll = 0, 0, 0
			a.amount.Reset()
			a.setStatus("New month. Add your categories")
		}
	}
	return a, nil
}

// enterRunning resets the log panel and focuses the amount field.
func (a *App) enterRunning() tea.Cmd {
	a.catCursor, a.subCursor = 0, 0
	a.amount.Reset()
	return a.amount.Focus()
}

func (a App) renderForm(cw int) string {
	w := min(cw, a.formWidth()+4)
	card := components.FocusCard(formTitles[a.formKind], a.form.View(), w)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(theme.Active.Background))
}
