package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.DefaultDays != 30 {
		t.Fatalf("default days = %d, want 30", cfg.General.DefaultDays)
	}
	if cfg.Appearance.CurrencySymbol != "€" {
		t.Fatalf("currency = %q, want €", cfg.Appearance.CurrencySymbol)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[general]\ndefault_days = 14\n\n[appearance]\ncurrency_symbol = \"$\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.DefaultDays != 14 {
		t.Fatalf("default days = %d, want 14", cfg.General.DefaultDays)
	}
	if cfg.Appearance.CurrencySymbol != "$" {
		t.Fatalf("currency = %q, want $", cfg.Appearance.CurrencySymbol)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("theme = %q, want default", cfg.Appearance.Theme)
	}
	if cfg.Server.Addr != "127.0.0.1:8787" {
		t.Fatalf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadFile_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.General.ExportDir = "/tmp/reports"
	cfg.Appearance.Theme = "tokyo-night"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestExportDir_Precedence(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("MBUDGET_EXPORT_DIR", "")
	if got := ExportDir(cfg); got != "." {
		t.Fatalf("ExportDir = %q, want .", got)
	}

	cfg.General.ExportDir = "/data"
	if got := ExportDir(cfg); got != "/data" {
		t.Fatalf("ExportDir = %q, want /data", got)
	}

	t.Setenv("MBUDGET_EXPORT_DIR", "/env")
	if got := ExportDir(cfg); got != "/env" {
		t.Fatalf("ExportDir = %q, want /env", got)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigPath(); got != filepath.Join("/xdg", "mbudget", "config.toml") {
		t.Fatalf("ConfigPath = %q", got)
	}
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := LogPath(DefaultConfig()); got != filepath.Join("/state", "mbudget", "mbudget.log") {
		t.Fatalf("LogPath = %q", got)
	}
}
