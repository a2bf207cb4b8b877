package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

var phases = []model.Phase{model.PhaseSetup, model.PhaseRunning, model.PhaseSummary}

var phaseTitles = map[model.Phase]string{
	model.PhaseSetup:   "Setup",
	model.PhaseRunning: "Tracking",
	model.PhaseSummary: "Summary",
}

// RenderPhaseBar renders the Setup > Tracking > Summary progression with the
// current phase highlighted and completed phases checked.
func RenderPhaseBar(current model.Phase) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Background)
	pendingStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	sepStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)

	parts := make([]string, 0, len(phases))
	for _, p := range phases {
		title := phaseTitles[p]
		switch {
		case p == current:
			parts = append(parts, activeStyle.Render("● "+title))
		case p < current:
			parts = append(parts, doneStyle.Render("✓ "+title))
		default:
			parts = append(parts, pendingStyle.Render("○ "+title))
		}
	}
	return strings.Join(parts, sepStyle.Render("  ›  "))
}
