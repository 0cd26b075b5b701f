package token

import "sync"

// Vault is the durable slot holding a single refresh token.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Load returns ("", nil) when nothing is stored; an error only for a
//   storage fault. Callers of Store never see either case distinctly;
//   both degrade to "no credentials."
// - Save overwrites the slot; Delete is a no-op when the slot is empty.
type Vault interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// MemoryVault is an in-memory Vault. It does not survive a restart and is
// intended for tests and hosts that deliberately opt out of resumable
// sessions.
type MemoryVault struct {
	mu    sync.Mutex
	token string
}

// NewMemoryVault creates an empty MemoryVault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

// Load returns the stored token, or "" when empty.
func (v *MemoryVault) Load() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token, nil
}

// Save overwrites the stored token.
func (v *MemoryVault) Save(token string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = token
	return nil
}

// Delete empties the slot.
func (v *MemoryVault) Delete() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = ""
	return nil
}

// Ensure MemoryVault implements Vault
var _ Vault = (*MemoryVault)(nil)
