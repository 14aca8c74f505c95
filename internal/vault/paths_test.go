package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := Dir("main")
	want := filepath.Join(home, ".chatvault", "vaults", "main")
	if got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestLockPath(t *testing.T) {
	got := LockPath("test")
	if !strings.HasSuffix(got, filepath.Join("vaults", "test", "LOCK")) {
		t.Errorf("LockPath(test) = %q, want suffix vaults/test/LOCK", got)
	}
}

func TestExportDir(t *testing.T) {
	got := ExportDir("test")
	if !strings.HasSuffix(got, filepath.Join("vaults", "test", "exports")) {
		t.Errorf("ExportDir(test) = %q, want suffix vaults/test/exports", got)
	}
}

func TestCredentialDBPath(t *testing.T) {
	got := CredentialDBPath("test")
	if !strings.HasSuffix(got, filepath.Join("vaults", "test", "session.db")) {
		t.Errorf("CredentialDBPath(test) = %q, want suffix vaults/test/session.db", got)
	}
}
