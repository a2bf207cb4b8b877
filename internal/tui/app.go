// Package tui provides the interactive Bubble Tea planner for mbudget.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/config"
	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
	"github.com/theirongolddev/mbudget/internal/store"
	"github.com/theirongolddev/mbudget/internal/tui/components"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

// TemplateSource suggests subcategories for a category name being typed.
// *store.Catalog satisfies it.
type TemplateSource interface {
	Suggest(input string) ([]store.Template, error)
}

// builtinTemplates serves the default templates when no catalog is available.
type builtinTemplates struct{}

func (builtinTemplates) Suggest(input string) ([]store.Template, error) {
	return store.Match(store.DefaultTemplates, input), nil
}

// Options configures a new App.
type Options struct {
	Config     config.Config
	ConfigPath string // where preference edits are saved; empty disables saving
	Templates  TemplateSource
	Logger     zerolog.Logger
	Now        func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	session model.Session

	cfg        config.Config
	configPath string
	templates  TemplateSource
	log        zerolog.Logger
	now        func() time.Time

	// UI state
	width    int
	height   int
	showHelp bool

	// Active huh form, if any. Values live behind a pointer because App is
	// copied on every Update.
	form     *huh.Form
	formKind formKind
	vals     *formValues

	// Running phase
	catCursor int
	subCursor int
	amount    textinput.Model

	// Summary phase
	scroll int

	prefs prefsState

	// Status bar message
	status    string
	statusErr bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
	maxFormWidth     = 72
)

// NewApp creates a new TUI app model with an empty session.
func NewApp(opts Options) App {
	if opts.Templates == nil {
		opts.Templates = builtinTemplates{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Config.General.DefaultDays <= 0 {
		opts.Config.General.DefaultDays = config.DefaultConfig().General.DefaultDays
	}

	return App{
		session:    model.NewSession(),
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		templates:  opts.Templates,
		log:        opts.Logger,
		now:        opts.Now,
		vals:       &formValues{},
		amount:     newAmountInput(),
		prefs:      prefsState{input: newPrefsInput()},
	}
}

// Session returns the current planner state.
func (a App) Session() model.Session {
	return a.session
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Open forms intercept all keys
		if a.form != nil {
			return a.updateForm(msg)
		}

		if a.prefs.editing {
			return a.updatePrefsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		a.clearStatus()

		if a.prefs.open {
			return a.updatePrefs(msg)
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "n":
			return a.openForm(formReset)
		case "p":
			a.prefs.open = true
			a.prefs.cursor = 0
			return a, nil
		}

		switch a.session.Phase {
		case model.PhaseSetup:
			return a.updateSetup(msg)
		case model.PhaseRunning:
			return a.updateRunning(msg)
		case model.PhaseSummary:
			return a.updateSummary(msg)
		}
		return a, nil
	}

	// Non-key messages (cursor blink, form internals) go to whatever is focused.
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.prefs.editing {
		var cmd tea.Cmd
		a.prefs.input, cmd = a.prefs.input.Update(msg)
		return a, cmd
	}
	if a.session.Phase == model.PhaseRunning {
		var cmd tea.Cmd
		a.amount, cmd = a.amount.Update(msg)
		return a, cmd
	}
	return a, nil
}

// dispatch applies an action, logging the outcome and surfacing rejections
// in the status bar. It reports whether the action was accepted.
func (a *App) dispatch(act planner.Action) bool {
	next, err := planner.Apply(a.session, act)
	if err != nil {
		a.log.Warn().Err(err).Str("action", act.Kind()).Str("phase", a.session.Phase.String()).Msg("action rejected")
		a.setError(err.Error())
		return false
	}
	a.log.Info().
		Str("action", act.Kind()).
		Str("phase", next.Phase.String()).
		Int("categories", len(next.Categories)).
		Msg("action applied")
	if next.Phase != a.session.Phase {
		a.scroll = 0
	}
	a.session = next
	return true
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusErr = false
}

func (a *App) setError(msg string) {
	a.status = msg
	a.statusErr = true
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusErr = false
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) formWidth() int {
	return min(a.contentWidth()-4, maxFormWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, minContentHeight)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  mbudget needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Setup", []binding{
			{"a", "Add a category"},
			{"s", "Start the month"},
		}},
		{"Tracking", []binding{
			{"j k", "Select category"},
			{"h l", "Select subcategory"},
			{"0-9 .", "Type amount"},
			{"Enter", "Log today's spending"},
		}},
		{"Summary", []binding{
			{"j k", "Scroll"},
			{"e", "Export CSV"},
			{"E", "Export JSON"},
		}},
		{"Anywhere", []binding{
			{"n", "New month (reset)"},
			{"p", "Preferences"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := a.renderHeader(w)
	statusBar := components.StatusBar{
		Hints:   a.hints(),
		Message: a.status,
		IsError: a.statusErr,
	}.Render(w)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.form != nil:
		content = a.renderForm(cw)
	case a.prefs.open:
		content = a.renderPrefs(cw)
	default:
		switch a.session.Phase {
		case model.PhaseSetup:
			content = a.renderSetup(cw)
		case model.PhaseRunning:
			content = a.renderRunning(cw)
		case model.PhaseSummary:
			content = a.renderSummary(cw, contentH)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderHeader(w int) string {
	t := theme.Active

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Background).Bold(true)
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	top := lipgloss.PlaceHorizontal(w, lipgloss.Left,
		" "+logoStyle.Render("◈ mbudget")+lipgloss.NewStyle().Background(t.Background).Render("   ")+
			components.RenderPhaseBar(a.session.Phase),
		lipgloss.WithWhitespaceBackground(t.Background))

	pill := pillStyle.Render(" budget ") + pillAccent.Render(cli.FormatMoney(a.session.TotalBudget()))
	if a.session.Phase != model.PhaseSetup {
		pill += pillStyle.Render(" │ spent ") + pillAccent.Render(cli.FormatMoney(a.session.TotalSpent())) +
			pillStyle.Render(" │ ") + pillAccent.Render(fmt.Sprintf("%d days", a.session.TotalDays))
	}
	pill += pillStyle.Render(" ")

	return top + "\n" + lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)
}

func (a App) hints() string {
	switch {
	case a.form != nil:
		return "[enter] next  [esc] cancel"
	case a.prefs.open:
		return "[j/k] navigate  [enter] edit  [esc] close"
	}
	switch a.session.Phase {
	case model.PhaseSetup:
		return "[a]dd category  [s]tart month  [p]refs  [?]help  [q]uit"
	case model.PhaseRunning:
		return "[j/k] category  [h/l] subcategory  [enter] log  [n]ew  [?]help  [q]uit"
	default:
		return "[e] csv  [E] json  [j/k] scroll  [n]ew month  [?]help  [q]uit"
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color
// so gaps between cards don't render as terminal default.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
