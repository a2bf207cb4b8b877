package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mbudget/internal/analytics"
	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
	"github.com/theirongolddev/mbudget/internal/tui/components"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

const historyRows = 8

func newAmountInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "0.00"
	ti.CharLimit = 16
	ti.Width = 16
	return ti
}

// isAmountKey reports whether a key press belongs in the amount field.
func isAmountKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) && r != '.' && r != ',' {
				return false
			}
		}
		return len(msg.Runes) > 0
	}
	return false
}

func (a App) updateRunning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cats := a.session.Categories

	switch msg.String() {
	case "j", "down":
		if a.catCursor < len(cats)-1 {
			a.catCursor++
			a.subCursor = 0
		}
		return a, nil
	case "k", "up":
		if a.catCursor > 0 {
			a.catCursor--
			a.subCursor = 0
		}
		return a, nil
	case "l", "tab":
		if a.catCursor < len(cats) && a.subCursor < len(cats[a.catCursor].Subcategories)-1 {
			a.subCursor++
		}
		return a, nil
	case "h", "shift+tab":
		if a.subCursor > 0 {
			a.subCursor--
		}
		return a, nil
	case "enter":
		return a.logSpend()
	}

	if isAmountKey(msg) {
		var cmd tea.Cmd
		a.amount, cmd = a.amount.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) logSpend() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(a.amount.Value())
	if raw == "" {
		a.setError("type an amount first")
		return a, nil
	}
	amount, err := parseAmount(raw)
	if err != nil {
		a.setError(fmt.Sprintf("%q is not an amount", raw))
		return a, nil
	}

	cat, sub := a.catCursor, a.subCursor
	if !a.dispatch(planner.LogSpend{Category: cat, Subcategory: sub, Amount: amount}) {
		return a, nil
	}
	a.amount.Reset()

	c := a.session.Categories[cat]
	if a.session.Phase == model.PhaseSummary {
		a.amount.Blur()
		a.setStatus("Month complete")
		return a, nil
	}
	a.setStatus(fmt.Sprintf("Logged %s to %s › %s (%s)",
		cli.FormatMoney(amount), c.Name, c.Subcategories[sub].Name,
		cli.FormatDays(c.DaysLogged(), a.session.TotalDays)))

	if c.Complete(a.session.TotalDays) {
		a.catCursor = a.nextOpenCategory(cat)
		a.subCursor = 0
	}
	return a, nil
}

// nextOpenCategory finds the next category after from that still has days
// to log, wrapping around. Returns from when every category is complete.
func (a App) nextOpenCategory(from int) int {
	cats := a.session.Categories
	for step := 1; step <= len(cats); step++ {
		i := (from + step) % len(cats)
		if !cats[i].Complete(a.session.TotalDays) {
			return i
		}
	}
	return from
}

func (a App) renderRunning(cw int) string {
	t := theme.Active
	s := a.session
	totals := analytics.Totals(s)

	done := 0
	for _, c := range s.Categories {
		if c.Complete(s.TotalDays) {
			done++
		}
	}

	remainingColor := t.Good
	if totals.Remaining.IsNegative() {
		remainingColor = t.Bad
	}
	metrics := []components.Metric{
		{Label: "Budget", Value: cli.FormatMoney(totals.Budget)},
		{Label: "Spent", Value: cli.FormatMoney(totals.Spent), Note: cli.FormatPercent(totals.SpentPercent) + " of budget",
			Color: components.ColorForUsage(totals.SpentPercent)},
		{Label: "Remaining", Value: cli.FormatMoney(totals.Remaining), Color: remainingColor},
		{Label: "Categories done", Value: fmt.Sprintf("%d / %d", done, len(s.Categories)),
			Note: fmt.Sprintf("%d day month", s.TotalDays)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderLogPanel(widths[0]),
		a.renderHistory(widths[1]),
	}))
	b.WriteString("\n")
	b.WriteString(a.renderCategoryGrid(cw))
	return b.String()
}

func (a App) renderLogPanel(w int) string {
	t := theme.Active
	if a.catCursor >= len(a.session.Categories) {
		return components.ContentCard("Log spending", "", w)
	}
	c := a.session.Categories[a.catCursor]
	innerW := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	selStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.SurfaceHover)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var body strings.Builder
	body.WriteString(labelStyle.Render("Category     ") + valueStyle.Render(c.Name) +
		dimStyle.Render(fmt.Sprintf("  (%d/%d)", a.catCursor+1, len(a.session.Categories))))
	body.WriteString("\n")

	chips := make([]string, len(c.Subcategories))
	for i, sub := range c.Subcategories {
		if i == a.subCursor {
			chips[i] = selStyle.Render(" " + sub.Name + " ")
		} else {
			chips[i] = subStyle.Render(" " + sub.Name + " ")
		}
	}
	subLine := labelStyle.Render("Subcategory  ") + strings.Join(chips, space.Render(" "))
	body.WriteString(lipgloss.NewStyle().MaxWidth(innerW).Render(subLine))
	body.WriteString("\n\n")

	if c.Complete(a.session.TotalDays) {
		body.WriteString(lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface).
			Render("✓ Every day logged for " + c.Name))
	} else {
		in := a.amount
		in.Prompt = cli.CurrencySymbol() + " "
		body.WriteString(labelStyle.Render(fmt.Sprintf("Day %-9d", c.DaysLogged()+1)) + in.View())
		body.WriteString("\n")
		body.WriteString(dimStyle.Render("Allowance today " + cli.FormatMoney(analytics.DailyAllowance(c, a.session.TotalDays))))
	}
	body.WriteString("\n\n")
	body.WriteString(dimStyle.Render("[j/k] category  [h/l] subcategory  [enter] log"))

	return components.FocusCard("Log spending", body.String(), w)
}

func (a App) renderHistory(w int) string {
	t := theme.Active
	if a.catCursor >= len(a.session.Categories) {
		return components.ContentCard("History", "", w)
	}
	c := a.session.Categories[a.catCursor]
	rows := analytics.History(c)
	innerW := components.CardInnerWidth(w)

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	dayStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	subStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amtStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	title := "History · " + c.Name
	if len(rows) == 0 {
		return components.ContentCard(title, dimStyle.Render("Nothing logged yet"), w)
	}

	var body strings.Builder
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Amount.InexactFloat64()
	}
	body.WriteString(components.Sparkline(values, t.SeriesColor(a.catCursor)))
	body.WriteString("\n")

	start := max(len(rows)-historyRows, 0)
	if start > 0 {
		body.WriteString(dimStyle.Render(fmt.Sprintf("… %d earlier days", start)))
		body.WriteString("\n")
	}
	amtW := 12
	subW := max(innerW-8-amtW, 6)
	for _, r := range rows[start:] {
		body.WriteString(dayStyle.Render(fmt.Sprintf("Day %-4d", r.Day)))
		body.WriteString(subStyle.Render(fmt.Sprintf("%-*s", subW, truncStr(r.Subcategory, subW))))
		body.WriteString(amtStyle.Render(fmt.Sprintf("%*s", amtW, cli.FormatMoney(r.Amount))))
		body.WriteString("\n")
	}
	body.WriteString(dayStyle.Render(fmt.Sprintf("%-*s", 8+subW, "Total")))
	body.WriteString(totalStyle.Render(fmt.Sprintf("%*s", amtW, cli.FormatMoney(analytics.CategoryTotal(c)))))

	return components.ContentCard(title, body.String(), w)
}

func (a App) renderCategoryGrid(cw int) string {
	cats := a.session.Categories
	cols := 3
	if a.isCompactLayout() {
		cols = 2
	}
	cols = min(cols, max(len(cats), 1))
	widths := components.LayoutRow(cw, cols)

	var rows []string
	for start := 0; start < len(cats); start += cols {
		end := min(start+cols, len(cats))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, a.renderCategoryCard(i, widths[i-start]))
		}
		rows = append(rows, components.CardRow(cards))
	}
	return strings.Join(rows, "\n")
}

func (a App) renderCategoryCard(i, w int) string {
	t := theme.Active
	c := a.session.Categories[i]
	days := a.session.TotalDays
	innerW := components.CardInnerWidth(w)
	used := analytics.UsedPercent(c)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	remainingStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface).Bold(true)
	if c.OverBudget() {
		remainingStyle = remainingStyle.Foreground(t.Bad)
	}

	var body strings.Builder
	body.WriteString(labelStyle.Render("Remaining ") + remainingStyle.Render(cli.FormatMoney(c.Remaining)) +
		dimStyle.Render(" of "+cli.FormatMoney(c.Budget)))
	body.WriteString("\n")
	body.WriteString(components.UsageBar(used, innerW))
	body.WriteString("\n")
	body.WriteString(labelStyle.Render(cli.FormatDays(c.DaysLogged(), days)))
	body.WriteString(dimStyle.Render(fmt.Sprintf(" · %d left", analytics.DaysLeft(c, days))))
	body.WriteString("\n")
	body.WriteString(labelStyle.Render("Daily allowance ") + valueStyle.Render(cli.FormatMoney(analytics.DailyAllowance(c, days))))

	for _, sub := range c.Subcategories {
		total := analytics.SubcategoryTotal(sub)
		line := fmt.Sprintf("  %s %s", truncStr(sub.Name, innerW/2), cli.FormatMoney(total))
		if total.IsPositive() {
			line += fmt.Sprintf(" (%.0f%%)", analytics.SubcategoryShare(sub, c))
		}
		body.WriteString("\n")
		body.WriteString(dimStyle.Render(truncStr(line, innerW)))
	}

	title := c.Name
	if c.Complete(days) {
		title += " ✓"
	}
	if i == a.catCursor {
		return components.FocusCard(title, body.String(), w)
	}
	return components.ContentCard(title, body.String(), w)
}
