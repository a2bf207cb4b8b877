package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mbudget/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", cfgPath)
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default days:  %d\n", cfg.General.DefaultDays)
	fmt.Printf("    Export dir:    %s\n", config.ExportDir(cfg))
	if env := os.Getenv("MBUDGET_EXPORT_DIR"); env != "" {
		fmt.Println("                   (from MBUDGET_EXPORT_DIR)")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Currency:      %s\n", cfg.Appearance.CurrencySymbol)
	fmt.Printf("    Locale:        %s\n", cfg.Appearance.Locale)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:         %s\n", cfg.Log.Level)
	fmt.Printf("    TUI log file:  %s\n", config.LogPath(cfg))
	fmt.Println()

	fmt.Printf("  Templates: %s\n", config.TemplatesPath())
	fmt.Println()
	fmt.Println("  Run `mbudget setup` to reconfigure.")
	return nil
}
