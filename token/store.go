package token

import "sync"

// Store holds the session's credentials. The access token lives only in
// memory; the refresh token is written through to the Vault and read back
// lazily, so a Store built over a populated FileVault resumes the previous
// session.
//
// Store methods never return errors: a failing Vault degrades to "no
// credentials" on reads and best-effort persistence on writes.
type Store struct {
	vault Vault

	mu      sync.RWMutex
	access  string
	refresh string
	loaded  bool // refresh slot has been read from the vault at least once
}

// NewStore creates a Store over the given vault. A nil vault gets an
// in-memory one.
func NewStore(vault Vault) *Store {
	if vault == nil {
		vault = NewMemoryVault()
	}
	return &Store{vault: vault}
}

// SetAccess replaces the volatile access token.
func (s *Store) SetAccess(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = tok
}

// Access returns the current access token, if any.
func (s *Store) Access() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

// SetRefresh replaces the refresh token and persists it. A vault write
// failure leaves the in-memory copy in place so the current process keeps
// working; only resumption after restart is lost.
func (s *Store) SetRefresh(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = tok
	s.loaded = true
	_ = s.vault.Save(tok)
}

// Refresh returns the current refresh token, reading it from the vault on
// first use.
func (s *Store) Refresh() (string, bool) {
	s.mu.RLock()
	if s.loaded {
		tok := s.refresh
		s.mu.RUnlock()
		return tok, tok != ""
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		tok, err := s.vault.Load()
		if err != nil {
			tok = ""
		}
		s.refresh = tok
		s.loaded = true
	}
	return s.refresh, s.refresh != ""
}

// HasCredentials reports whether a refresh token is available, i.e. whether
// a session can be resumed at all.
func (s *Store) HasCredentials() bool {
	_, ok := s.Refresh()
	return ok
}

// Clear removes both tokens. Safe to call repeatedly and when nothing is
// stored.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.loaded = true
	_ = s.vault.Delete()
}
