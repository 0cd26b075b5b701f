package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileVault stores the refresh token in a single file. Writes go through a
// temp file and rename so a crash mid-write never leaves a truncated token.
// The file is created with 0600; the parent directory with 0700.
type FileVault struct {
	path string
}

// NewFileVault creates a FileVault at the given path.
func NewFileVault(path string) *FileVault {
	return &FileVault{path: path}
}

// Path returns the file path backing this vault.
func (v *FileVault) Path() string {
	return v.path
}

// Load reads the stored token. A missing file means an empty slot.
func (v *FileVault) Load() (string, error) {
	data, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("token: read vault: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save atomically overwrites the stored token.
func (v *FileVault) Save(tok string) error {
	dir := filepath.Dir(v.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("token: create vault dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".refresh-*")
	if err != nil {
		return fmt.Errorf("token: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("token: chmod temp file: %w", err)
	}
	if _, err := tmp.WriteString(tok); err != nil {
		tmp.Close()
		return fmt.Errorf("token: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("token: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, v.path); err != nil {
		return fmt.Errorf("token: replace vault: %w", err)
	}
	return nil
}

// Delete removes the file. A missing file is not an error.
func (v *FileVault) Delete() error {
	if err := os.Remove(v.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("token: delete vault: %w", err)
	}
	return nil
}

// Ensure FileVault implements Vault
var _ Vault = (*FileVault)(nil)
