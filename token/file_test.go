package token

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileVaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "refresh")
	v := NewFileVault(path)

	if err := v.Save("rt-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh vault over the same path sees the value, the restart case.
	tok, err := NewFileVault(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "rt-1" {
		t.Errorf("Load() = %q, want rt-1", tok)
	}
}

func TestFileVaultMissingFile(t *testing.T) {
	v := NewFileVault(filepath.Join(t.TempDir(), "never-written"))

	tok, err := v.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if tok != "" {
		t.Errorf("Load() = %q, want empty", tok)
	}
}

func TestFileVaultPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	path := filepath.Join(t.TempDir(), "refresh")
	v := NewFileVault(path)
	if err := v.Save("rt-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("vault file mode = %o, want 600", perm)
	}
}

func TestFileVaultOverwrite(t *testing.T) {
	v := NewFileVault(filepath.Join(t.TempDir(), "refresh"))

	if err := v.Save("rt-old"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := v.Save("rt-new"); err != nil {
		t.Fatalf("Save (overwrite): %v", err)
	}

	tok, err := v.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "rt-new" {
		t.Errorf("Load() = %q, want rt-new", tok)
	}
}

func TestFileVaultDeleteIdempotent(t *testing.T) {
	v := NewFileVault(filepath.Join(t.TempDir(), "refresh"))

	if err := v.Save("rt-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := v.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := v.Delete(); err != nil {
		t.Fatalf("Delete on empty slot: %v", err)
	}

	tok, err := v.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "" {
		t.Errorf("Load() after Delete = %q, want empty", tok)
	}
}

func TestFileVaultTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh")
	if err := os.WriteFile(path, []byte("rt-1\n"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	tok, err := NewFileVault(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "rt-1" {
		t.Errorf("Load() = %q, want rt-1", tok)
	}
}
