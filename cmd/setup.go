package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mbudget/internal/config"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Preferences wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	days := strconv.Itoa(cfg.General.DefaultDays)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to mbudget").
				Description("A few preferences, all changeable later in the app with p."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&cfg.Appearance.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Value(&cfg.Appearance.CurrencySymbol),
			huh.NewInput().
				Title("Number locale").
				Description("Controls digit grouping, e.g. en or de").
				Value(&cfg.Appearance.Locale),
			huh.NewInput().
				Title("Default days per month").
				Value(&days).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
						return errors.New("enter a positive number of days")
					}
					return nil
				}),
			huh.NewInput().
				Title("Export directory").
				Description("Where CSV and JSON reports are written. Empty means the current directory").
				Value(&cfg.General.ExportDir),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	cfg.General.DefaultDays, _ = strconv.Atoi(strings.TrimSpace(days))
	cfg.General.ExportDir = strings.TrimSpace(cfg.General.ExportDir)

	if err := config.SaveFile(cfgPath, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", cfgPath)
	fmt.Println("  Run `mbudget setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
