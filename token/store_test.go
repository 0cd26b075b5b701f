package token

import (
	"errors"
	"sync"
	"testing"
)

// recordingVault tracks every value saved, to prove access tokens never
// reach durable storage.
type recordingVault struct {
	mu    sync.Mutex
	saved []string
	token string
}

func (v *recordingVault) Load() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token, nil
}

func (v *recordingVault) Save(tok string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.saved = append(v.saved, tok)
	v.token = tok
	return nil
}

func (v *recordingVault) Delete() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = ""
	return nil
}

// failingVault errors on every operation.
type failingVault struct{}

func (failingVault) Load() (string, error)  { return "", errors.New("quota exceeded") }
func (failingVault) Save(tok string) error  { return errors.New("quota exceeded") }
func (failingVault) Delete() error          { return errors.New("quota exceeded") }

func TestStoreAccessToken(t *testing.T) {
	s := NewStore(nil)

	if tok, ok := s.Access(); ok || tok != "" {
		t.Errorf("empty store Access() = (%q, %v), want (\"\", false)", tok, ok)
	}

	s.SetAccess("at-1")
	tok, ok := s.Access()
	if !ok || tok != "at-1" {
		t.Errorf("Access() = (%q, %v), want (at-1, true)", tok, ok)
	}
}

func TestStoreAccessTokenNeverPersisted(t *testing.T) {
	vault := &recordingVault{}
	s := NewStore(vault)

	s.SetAccess("at-secret")
	s.SetRefresh("rt-1")

	for _, saved := range vault.saved {
		if saved == "at-secret" {
			t.Fatal("access token was written to the vault")
		}
	}
	if len(vault.saved) != 1 || vault.saved[0] != "rt-1" {
		t.Errorf("vault saves = %v, want [rt-1]", vault.saved)
	}
}

func TestStoreRefreshResumesFromVault(t *testing.T) {
	vault := &recordingVault{token: "rt-persisted"}
	s := NewStore(vault)

	if !s.HasCredentials() {
		t.Fatal("HasCredentials() = false with populated vault")
	}
	tok, ok := s.Refresh()
	if !ok || tok != "rt-persisted" {
		t.Errorf("Refresh() = (%q, %v), want (rt-persisted, true)", tok, ok)
	}
}

func TestStoreVaultFailureDegrades(t *testing.T) {
	s := NewStore(failingVault{})

	if s.HasCredentials() {
		t.Error("HasCredentials() = true over a failing vault")
	}

	// Writes are best-effort: the in-memory copy must remain usable.
	s.SetRefresh("rt-1")
	tok, ok := s.Refresh()
	if !ok || tok != "rt-1" {
		t.Errorf("Refresh() after failing Save = (%q, %v), want (rt-1, true)", tok, ok)
	}

	// Clear must not surface the vault's Delete error.
	s.Clear()
	if s.HasCredentials() {
		t.Error("HasCredentials() = true after Clear")
	}
}

func TestStoreClearIdempotent(t *testing.T) {
	s := NewStore(nil)
	s.SetAccess("at-1")
	s.SetRefresh("rt-1")

	s.Clear()
	s.Clear() // second call must be a safe no-op

	if _, ok := s.Access(); ok {
		t.Error("access token survived Clear")
	}
	if s.HasCredentials() {
		t.Error("refresh token survived Clear")
	}
}

func TestStoreClearMasksVault(t *testing.T) {
	vault := &recordingVault{token: "rt-old"}
	s := NewStore(vault)

	s.Clear()

	// Even if the vault Delete failed to remove the value, the store must
	// report no credentials for the rest of this process's lifetime.
	if s.HasCredentials() {
		t.Error("HasCredentials() = true after Clear")
	}
}

func TestStoreConcurrentUse(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetAccess("at")
			s.SetRefresh("rt")
			s.Access()
			s.Refresh()
			s.HasCredentials()
		}()
	}
	wg.Wait()
}
