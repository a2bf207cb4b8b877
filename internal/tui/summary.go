package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mbudget/internal/analytics"
	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/config"
	"github.com/theirongolddev/mbudget/internal/export"
	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/tui/components"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

func (a App) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		a.scroll++
	case "k", "up":
		a.scroll = max(a.scroll-1, 0)
	case "g":
		a.scroll = 0
	case "e":
		a.exportReport(export.FormatCSV)
	case "E":
		a.exportReport(export.FormatJSON)
	}
	return a, nil
}

func (a *App) exportReport(f export.Format) {
	dir := config.ExportDir(a.cfg)
	path, err := export.ToFile(dir, f, a.session, a.now())
	if err != nil {
		a.log.Error().Err(err).Str("format", string(f)).Str("dir", dir).Msg("export failed")
		a.setError("export failed: " + err.Error())
		return
	}
	a.log.Info().Str("format", string(f)).Str("path", path).Msg("report exported")
	a.setStatus("Saved " + path)
}

func (a App) renderSummary(cw, contentH int) string {
	content := a.summaryContent(cw)
	lines := strings.Split(content, "\n")

	// Clamp so the last screen stays full.
	maxScroll := max(len(lines)-contentH, 0)
	scroll := min(a.scroll, maxScroll)
	return strings.Join(lines[scroll:], "\n")
}

func (a App) summaryContent(cw int) string {
	t := theme.Active
	sum := analytics.Summarize(a.session)
	tot := sum.Totals

	remainingColor := t.Good
	if tot.Remaining.IsNegative() {
		remainingColor = t.Bad
	}
	onBudgetColor := t.Good
	if sum.OnBudget < sum.CategoryCount {
		onBudgetColor = t.Warn
	}
	metrics := []components.Metric{
		{Label: "Total budget", Value: cli.FormatMoney(tot.Budget), Note: fmt.Sprintf("%d days", sum.TotalDays)},
		{Label: "Total spent", Value: cli.FormatMoney(tot.Spent), Note: cli.FormatPercent(tot.SpentPercent) + " of budget",
			Color: components.ColorForUsage(tot.SpentPercent)},
		{Label: "Remaining", Value: cli.FormatMoney(tot.Remaining), Color: remainingColor},
		{Label: "On budget", Value: fmt.Sprintf("%d of %d", sum.OnBudget, sum.CategoryCount), Note: "categories",
			Color: onBudgetColor},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	outcomeStyle := lipgloss.NewStyle().Foreground(remainingColor).Background(t.Surface).Bold(true)
	b.WriteString(components.ContentCard("Performance", outcomeStyle.Render(cli.Outcome(tot.Remaining)), cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(renderShares(sum.Shares, cw))
		b.WriteString("\n")
		b.WriteString(renderTopSpending(sum.TopSpending, cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			renderShares(sum.Shares, widths[0]),
			renderTopSpending(sum.TopSpending, widths[1]),
		}))
	}
	b.WriteString("\n")
	b.WriteString(renderRedZones(sum.RedZones, cw))
	b.WriteString("\n")
	b.WriteString(renderBreakdown(sum.Categories, cw, a.isCompactLayout()))
	return b.String()
}

func renderShares(shares []model.CategoryShare, w int) string {
	t := theme.Active
	if len(shares) == 0 {
		return components.ContentCard("Spending by category",
			lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No spending logged"), w)
	}
	bars := make([]components.Bar, len(shares))
	for i, s := range shares {
		bars[i] = components.Bar{
			Label: s.Name,
			Value: s.Amount.InexactFloat64(),
			Text:  fmt.Sprintf("%s %5.1f%%", cli.FormatMoney(s.Amount), s.Share),
		}
	}
	return components.ContentCard("Spending by category", components.HBarChart(bars, components.CardInnerWidth(w)), w)
}

func renderTopSpending(areas []model.SpendingArea, w int) string {
	t := theme.Active
	if len(areas) == 0 {
		return components.ContentCard("Top spending areas",
			lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No spending logged"), w)
	}
	bars := make([]components.Bar, len(areas))
	for i, area := range areas {
		bars[i] = components.Bar{
			Label: fmt.Sprintf("%d. %s", i+1, area.Subcategory),
			Value: area.Amount.InexactFloat64(),
			Text:  cli.FormatMoney(area.Amount),
			Color: t.Accent,
		}
	}
	return components.ContentCard("Top spending areas", components.HBarChart(bars, components.CardInnerWidth(w)), w)
}

func renderRedZones(zones []model.RedZone, w int) string {
	t := theme.Active
	goodStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface)
	if len(zones) == 0 {
		return components.ContentCard("Red zones", goodStyle.Render("No red zones. Spending is well spread out"), w)
	}

	badStyle := lipgloss.NewStyle().Foreground(t.Bad).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	lines := make([]string, len(zones))
	for i, z := range zones {
		reason := fmt.Sprintf("%.1f%% of %s", z.Share, z.Category)
		if z.OverBudget {
			reason += ", category over budget"
		}
		lines[i] = badStyle.Render("⚠ ") +
			textStyle.Render(z.Category+" › "+z.Subcategory+"  "+cli.FormatMoney(z.Amount)) +
			dimStyle.Render("  "+reason)
	}
	return components.ContentCard("Red zones", strings.Join(lines, "\n"), w)
}

func renderBreakdown(rows []model.CategoryBreakdown, cw int, compact bool) string {
	t := theme.Active
	cols := 2
	if compact {
		cols = 1
	}
	cols = min(cols, max(len(rows), 1))
	widths := components.LayoutRow(cw, cols)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var out []string
	for start := 0; start < len(rows); start += cols {
		end := min(start+cols, len(rows))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			r := rows[i]
			w := widths[i-start]
			innerW := components.CardInnerWidth(w)

			statusStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface).Bold(true)
			status := "on budget"
			if !r.OnBudget {
				statusStyle = statusStyle.Foreground(t.Bad)
				status = "over budget"
			}

			var body strings.Builder
			body.WriteString(labelStyle.Render("Budget ") + valueStyle.Render(cli.FormatMoney(r.Budget)) +
				labelStyle.Render("  Spent ") + valueStyle.Render(cli.FormatMoney(r.Spent)) +
				labelStyle.Render("  Left ") + statusStyle.Render(cli.FormatMoney(r.Remaining)))
			body.WriteString("\n")
			body.WriteString(components.UsageBar(r.UsedPercent, innerW))
			body.WriteString("\n")
			body.WriteString(statusStyle.Render(status) + dimStyle.Render(fmt.Sprintf(" · %d days logged", r.DaysLogged)))
			for _, sub := range r.Subcategories {
				body.WriteString("\n")
				body.WriteString(dimStyle.Render(truncStr(fmt.Sprintf("  %s %s (%.1f%%)",
					sub.Subcategory, cli.FormatMoney(sub.Amount), sub.Share), innerW)))
			}
			cards = append(cards, components.ContentCard(r.Name, body.String(), w))
		}
		out = append(out, components.CardRow(cards))
	}
	return strings.Join(out, "\n")
}
