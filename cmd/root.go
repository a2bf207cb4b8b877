// Package cmd implements the mbudget CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/config"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

var (
	flagConfig   string
	flagLogLevel string
	flagQuiet    bool
)

// Loaded by the persistent pre-run of every command.
var (
	appCfg  config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "mbudget",
	Short: "Monthly budget planner",
	Long: "Plan a month of spending by category, log one amount per category per day,\n" +
		"and review where the money went.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
}

// loadSettings reads the config file and applies the ambient settings every
// command shares: logging, money formatting and theme.
func loadSettings(_ *cobra.Command, _ []string) error {
	cfgPath = flagConfig
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	cfg, loadErr := config.LoadFile(cfgPath)
	if loadErr != nil {
		cfg = config.DefaultConfig()
	}
	appCfg = cfg

	level, err := logLevel(cfg)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = newConsoleLogger(os.Stderr)
	if loadErr != nil {
		log.Warn().Err(loadErr).Str("path", cfgPath).Msg("config not loaded, using defaults")
	}

	cli.SetMoneyFormat(cfg.Appearance.Locale, cfg.Appearance.CurrencySymbol)
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

func logLevel(cfg config.Config) (zerolog.Level, error) {
	if flagQuiet {
		return zerolog.ErrorLevel, nil
	}
	name := cfg.Log.Level
	if flagLogLevel != "" {
		name = flagLogLevel
	}
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func newConsoleLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
