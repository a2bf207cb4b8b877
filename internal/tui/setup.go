package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/planner"
	"github.com/theirongolddev/mbudget/internal/tui/components"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

func (a App) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return a.openForm(formCategory)
	case "s":
		if len(a.session.Categories) == 0 {
			a.setError(planner.ErrNoCategories.Error())
			return a, nil
		}
		return a.openForm(formStart)
	}
	return a, nil
}

func (a App) renderSetup(cw int) string {
	t := theme.Active

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	moneyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	chipStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.SurfaceHover)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	cats := a.session.Categories
	metrics := []components.Metric{
		{Label: "Categories", Value: fmt.Sprintf("%d", len(cats))},
		{Label: "Total budget", Value: cli.FormatMoney(a.session.TotalBudget()), Color: t.Accent},
		{Label: "Month length", Value: fmt.Sprintf("%d days", a.cfg.General.DefaultDays), Note: "default, set when starting"},
	}

	var body strings.Builder
	if len(cats) == 0 {
		body.WriteString(dimStyle.Render("No categories yet. Press a to add one, e.g. Groceries or Transportation."))
	} else {
		innerW := components.CardInnerWidth(cw)
		nameW := 0
		for _, c := range cats {
			nameW = max(nameW, lipgloss.Width(c.Name))
		}
		nameW = min(nameW, innerW/3)

		for i, c := range cats {
			if i > 0 {
				body.WriteString("\n")
			}
			line := nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(c.Name, nameW))) +
				space.Render("  ") +
				moneyStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(c.Budget))) +
				space.Render("  ")

			chips := make([]string, len(c.Subcategories))
			for j, sub := range c.Subcategories {
				chips[j] = chipStyle.Render(" " + sub.Name + " ")
			}
			line += strings.Join(chips, space.Render(" "))
			if lipgloss.Width(line) > innerW {
				line = lipgloss.NewStyle().MaxWidth(innerW).Render(line)
			}
			body.WriteString(line)
		}
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Categories", body.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Next",
		dimStyle.Render("[a] add a category   [s] start tracking once every category is in"), cw))
	return b.String()
}
