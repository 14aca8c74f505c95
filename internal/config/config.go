package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.chatvault/config.toml.
type Config struct {
	DefaultVault string `toml:"default_vault"`

	// Directories for the flat-file pipeline. Relative paths are
	// resolved against the vault directory.
	ExportDir  string `toml:"export_dir"`
	KeyInfoDir string `toml:"key_info_dir"`
	SummaryDir string `toml:"summary_dir"`

	// Default time-range token for batch exports. The export surface
	// accepts all|week|month|<date>; the interactive bot uses its own
	// token set and is configured separately.
	ExportRange string `toml:"export_range"`

	Summarizer SummarizerConfig `toml:"summarizer"`
}

// SummarizerConfig configures the summarization backend. The API key is
// never stored in the file; it comes from the environment.
type SummarizerConfig struct {
	Endpoint    string `toml:"endpoint"`
	MaxTokens   int    `toml:"max_tokens"`
	RateLimitMs int    `toml:"rate_limit_ms"`
}

// Default returns a config with the built-in defaults applied.
func Default() *Config {
	return &Config{
		ExportDir:   "exports",
		KeyInfoDir:  "key_info",
		SummaryDir:  "summaries",
		ExportRange: "all",
		Summarizer: SummarizerConfig{
			Endpoint:    "https://api-inference.huggingface.co/models/facebook/bart-large-cnn",
			MaxTokens:   1024,
			RateLimitMs: 1000,
		},
	}
}

// Load reads config from the given path, layering file values over the
// defaults. Returns defaults and the error if the file is missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// ResolveDir resolves a configured pipeline directory against the
// vault directory. Absolute values are used as-is.
func ResolveDir(vaultDir, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(vaultDir, dir)
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
