package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/config"
	"github.com/theirongolddev/mbudget/internal/tui/components"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

const (
	prefsFieldTheme = iota
	prefsFieldCurrency
	prefsFieldLocale
	prefsFieldDays
	prefsFieldExportDir
	prefsFieldCount // sentinel
)

var prefsLabels = [prefsFieldCount]string{
	"Theme",
	"Currency symbol",
	"Number locale",
	"Default days",
	"Export directory",
}

// prefsState tracks the preferences panel.
type prefsState struct {
	open    bool
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newPrefsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	return ti
}

func (a App) prefsValue(field int) string {
	switch field {
	case prefsFieldTheme:
		return a.cfg.Appearance.Theme
	case prefsFieldCurrency:
		return a.cfg.Appearance.CurrencySymbol
	case prefsFieldLocale:
		return a.cfg.Appearance.Locale
	case prefsFieldDays:
		return strconv.Itoa(a.cfg.General.DefaultDays)
	case prefsFieldExportDir:
		return a.cfg.General.ExportDir
	}
	return ""
}

func (a App) updatePrefs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.prefs.cursor < prefsFieldCount-1 {
			a.prefs.cursor++
		}
	case "k", "up":
		if a.prefs.cursor > 0 {
			a.prefs.cursor--
		}
	case "enter":
		return a.prefsStartEdit()
	case "esc", "p", "q":
		a.prefs.open = false
		a.prefs.saved = false
		a.prefs.saveErr = nil
	}
	return a, nil
}

func (a App) prefsStartEdit() (tea.Model, tea.Cmd) {
	a.prefs.editing = true
	a.prefs.saved = false

	ti := newPrefsInput()
	switch a.prefs.cursor {
	case prefsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
	case prefsFieldCurrency:
		ti.Placeholder = "€"
	case prefsFieldLocale:
		ti.Placeholder = "en, de, fr, ..."
	case prefsFieldDays:
		ti.Placeholder = "30"
	case prefsFieldExportDir:
		ti.Placeholder = "(current directory)"
	}
	ti.SetValue(a.prefsValue(a.prefs.cursor))
	ti.Focus()
	a.prefs.input = ti
	return a, textinput.Blink
}

func (a App) updatePrefsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.prefsSave()
		a.prefs.editing = false
		a.prefs.saved = a.prefs.saveErr == nil
		return a, nil
	case "esc":
		a.prefs.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.prefs.input, cmd = a.prefs.input.Update(msg)
	return a, cmd
}

// prefsSave applies the edited field to the running app and persists it.
// Invalid values are reported and leave the config untouched.
func (a *App) prefsSave() {
	val := strings.TrimSpace(a.prefs.input.Value())
	cfg := a.cfg

	switch a.prefs.cursor {
	case prefsFieldTheme:
		found := false
		for _, name := range theme.Names() {
			if name == val {
				found = true
				break
			}
		}
		if !found {
			a.prefs.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
	case prefsFieldCurrency:
		cfg.Appearance.CurrencySymbol = val
	case prefsFieldLocale:
		if val == "" {
			val = "en"
		}
		cfg.Appearance.Locale = val
	case prefsFieldDays:
		d, err := strconv.Atoi(val)
		if err != nil || d <= 0 {
			a.prefs.saveErr = fmt.Errorf("default days must be a positive number")
			return
		}
		cfg.General.DefaultDays = d
	case prefsFieldExportDir:
		cfg.General.ExportDir = val
	}

	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	cli.SetMoneyFormat(cfg.Appearance.Locale, cfg.Appearance.CurrencySymbol)

	a.prefs.saveErr = nil
	if a.configPath != "" {
		a.prefs.saveErr = config.SaveFile(a.configPath, cfg)
	}
	if a.prefs.saveErr != nil {
		a.log.Error().Err(a.prefs.saveErr).Str("path", a.configPath).Msg("saving preferences")
		return
	}
	a.log.Info().Str("field", prefsLabels[a.prefs.cursor]).Msg("preference updated")
}

func (a App) renderPrefs(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover)
	goodStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)

	var form strings.Builder
	for i := 0; i < prefsFieldCount; i++ {
		label := prefsLabels[i]
		value := a.prefsValue(i)
		if value == "" {
			value = "(not set)"
		}

		switch {
		case a.prefs.editing && i == a.prefs.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", label)))
			form.WriteString(a.prefs.input.View())
		case i == a.prefs.cursor:
			line := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-18s ", label+":")) +
				selectedStyle.Render(value)
			form.WriteString(line)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", label+":")))
			form.WriteString(valueStyle.Render(value))
		}
		form.WriteString("\n")
	}

	if a.prefs.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(warnStyle.Render("Not saved: " + a.prefs.saveErr.Error()))
		form.WriteString("\n")
	} else if a.prefs.saved {
		form.WriteString("\n")
		form.WriteString(goodStyle.Render("Saved!"))
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] close"))

	path := a.configPath
	if path == "" {
		path = "(not saved)"
	}
	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(path) + "\n")
	info.WriteString(labelStyle.Render("Exports go to: ") + valueStyle.Render(config.ExportDir(a.cfg)) + "\n")
	info.WriteString(labelStyle.Render("Log file:      ") + valueStyle.Render(config.LogPath(a.cfg)))

	return components.ContentCard("Preferences", form.String(), cw) + "\n" +
		components.ContentCard("Files", info.String(), cw)
}
