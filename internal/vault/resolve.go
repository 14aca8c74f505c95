package vault

import "github.com/matheus3301/chatvault/internal/config"

const DefaultVaultName = "main"

// Resolve determines the active vault name using precedence:
// 1. flagOverride (--vault flag)
// 2. config.toml default_vault
// 3. "main"
func Resolve(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	cfg, err := config.Load(ConfigPath())
	if err == nil && cfg.DefaultVault != "" {
		return cfg.DefaultVault
	}
	return DefaultVaultName
}
