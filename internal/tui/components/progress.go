package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mbudget/internal/analytics"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

// ColorForUsage maps a used percentage (0-100+) to good/warn/bad.
func ColorForUsage(usedPercent float64) lipgloss.Color {
	t := theme.Active
	switch analytics.LevelFor(usedPercent) {
	case analytics.LevelOver:
		return t.Bad
	case analytics.LevelWarn:
		return t.Warn
	default:
		return t.Good
	}
}

// UsageBar renders a budget usage bar followed by the percentage.
// usedPercent is 0-100 and may exceed 100; the bar itself caps at full.
func UsageBar(usedPercent float64, width int) string {
	t := theme.Active

	frac := usedPercent / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	color := ColorForUsage(usedPercent)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(width-6, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(frac) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%4.0f%%", usedPercent))
}

// LabeledUsageBar renders "label  [bar] pct" with the label padded to labelW.
func LabeledUsageBar(label string, usedPercent float64, labelW, width int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if lipgloss.Width(label) > labelW {
		label = truncate(label, labelW)
	}
	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		UsageBar(usedPercent, max(width-labelW-1, 10))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
