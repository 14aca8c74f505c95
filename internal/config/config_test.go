package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.DefaultVault = "work"
	cfg.ExportRange = "month"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultVault != "work" {
		t.Errorf("DefaultVault = %q, want %q", loaded.DefaultVault, "work")
	}
	if loaded.ExportRange != "month" {
		t.Errorf("ExportRange = %q, want %q", loaded.ExportRange, "month")
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
	if cfg == nil || cfg.ExportDir != "exports" {
		t.Errorf("Load() on missing file should still return defaults, got %+v", cfg)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Summarizer.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.Summarizer.MaxTokens)
	}
	if cfg.Summarizer.Endpoint == "" {
		t.Error("default summarizer endpoint is empty")
	}
	if cfg.ExportRange != "all" {
		t.Errorf("ExportRange = %q, want all", cfg.ExportRange)
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
