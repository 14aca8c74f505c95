package daemon

import (
	"testing"

	"github.com/matheus3301/chatvault/internal/status"
	"go.uber.org/zap"
)

func TestProvideConfigFallsBackToDefaults(t *testing.T) {
	// No config file exists for a throwaway HOME; defaults must apply.
	t.Setenv("HOME", t.TempDir())

	cfg := provideConfig(zap.NewNop())
	if cfg.ExportDir != "exports" {
		t.Errorf("ExportDir = %q, want exports", cfg.ExportDir)
	}
	if cfg.Summarizer.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.Summarizer.MaxTokens)
	}
}

func TestProvideStateMachineStartsBooting(t *testing.T) {
	m := provideStateMachine(provideBus())
	if m.Current() != status.Booting {
		t.Errorf("initial state = %s, want BOOTING", m.Current())
	}
}

func TestProvideSessionStoreEmpty(t *testing.T) {
	st := provideSessionStore()
	if st.Len() != 0 {
		t.Errorf("session store starts with %d sessions", st.Len())
	}
}
