package vault

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.chatvault.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatvault")
}

// Dir returns the vault-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "vaults", name)
}

// LockPath returns the lock file path for a vault.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// CredentialDBPath returns the platform credential store (session.db) path.
func CredentialDBPath(name string) string {
	return filepath.Join(Dir(name), "session.db")
}

// ExportDir returns the transcript output directory for a vault.
func ExportDir(name string) string {
	return filepath.Join(Dir(name), "exports")
}

// KeyInfoDir returns the extraction report output directory for a vault.
func KeyInfoDir(name string) string {
	return filepath.Join(Dir(name), "key_info")
}

// SummaryDir returns the summary output directory for a vault.
func SummaryDir(name string) string {
	return filepath.Join(Dir(name), "summaries")
}

// LogDir returns the log directory for a vault.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the daemon log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "vaultd.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the vault directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
		ExportDir(name),
		KeyInfoDir(name),
		SummaryDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
