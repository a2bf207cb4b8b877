package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

// StatusBar is the bottom line of the app: key hints on the left and a
// transient message on the right.
type StatusBar struct {
	Hints   string
	Message string
	IsError bool
}

// Render renders the status bar at the given width.
func (s StatusBar) Render(width int) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgColor := t.Accent
	if s.IsError {
		msgColor = t.Bad
	}
	msgStyle := lipgloss.NewStyle().Foreground(msgColor).Background(t.Surface).Bold(true)

	left := " " + s.Hints
	right := ""
	if s.Message != "" {
		right = s.Message + " "
	}

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	if leftW+rightW > width {
		// the message wins over hints
		left = truncate(left, max(width-rightW, 0))
		leftW = lipgloss.Width(left)
	}
	if rightW > width {
		right = truncate(right, width)
		rightW = lipgloss.Width(right)
	}
	padding := max(width-leftW-rightW, 0)

	return base.Render(left+strings.Repeat(" ", padding)) + msgStyle.Render(right)
}
