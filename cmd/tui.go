package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mbudget/internal/config"
	"github.com/theirongolddev/mbudget/internal/store"
	"github.com/theirongolddev/mbudget/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive planner (default)",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// The terminal belongs to Bubble Tea, so logs go to a file.
	logPath := config.LogPath(appCfg)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	logger := zerolog.New(logf).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	opts := tui.Options{
		Config:     appCfg,
		ConfigPath: cfgPath,
		Logger:     logger,
	}

	// A missing template catalog only costs suggestions.
	catalog, err := store.Open(config.TemplatesPath())
	if err != nil {
		logger.Warn().Err(err).Msg("template catalog unavailable, using built-in templates")
	} else {
		defer func() { _ = catalog.Close() }()
		opts.Templates = catalog
	}

	// Force TrueColor so background styling always renders.
	lipgloss.SetColorProfile(termenv.TrueColor)

	logger.Info().Str("theme", appCfg.Appearance.Theme).Msg("starting planner")
	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if app, ok := final.(tui.App); ok {
		s := app.Session()
		logger.Info().
			Str("phase", s.Phase.String()).
			Int("categories", len(s.Categories)).
			Msg("planner closed")
	}
	return nil
}
