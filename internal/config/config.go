// Package config loads and saves mbudget preferences as TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "mbudget"

// Config holds all mbudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds planning defaults.
type GeneralConfig struct {
	DefaultDays int    `toml:"default_days"`
	ExportDir   string `toml:"export_dir,omitempty"`
}

// AppearanceConfig holds theme and number formatting settings.
type AppearanceConfig struct {
	Theme          string `toml:"theme"`
	CurrencySymbol string `toml:"currency_symbol"`
	Locale         string `toml:"locale"`
}

// ServerConfig holds HTTP API settings for `mbudget serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
		},
		Appearance: AppearanceConfig{
			Theme:          "flexoki-dark",
			CurrencySymbol: "€",
			Locale:         "en",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory used for logs and the template catalog.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config from path. Keys missing from the file keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveFile writes cfg to path, creating parent directories.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ExportDir returns the report directory: MBUDGET_EXPORT_DIR, then config,
// then the current working directory.
func ExportDir(cfg Config) string {
	if dir := os.Getenv("MBUDGET_EXPORT_DIR"); dir != "" {
		return dir
	}
	if cfg.General.ExportDir != "" {
		return cfg.General.ExportDir
	}
	return "."
}

// LogPath returns the log file used while the TUI owns the terminal.
func LogPath(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(StateDir(), appName+".log")
}

// TemplatesPath returns the SQLite template catalog location.
func TemplatesPath() string {
	return filepath.Join(StateDir(), "templates.db")
}
