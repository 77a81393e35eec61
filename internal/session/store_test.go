package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token")
	store := NewFileStore(path)

	if err := store.Set("abc123"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("got token %q, want %q", token, "abc123")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("token file mode = %o, want 0600", perm)
	}
}

func TestFileStoreMissingTokenIsLoggedOut(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token"))

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token() on missing file: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token"))

	if err := store.Set("tok"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	// clearing again must not fail
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear() failed: %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token() after clear: %v", err)
	}
	if token != "" {
		t.Fatalf("token survived Clear(): %q", token)
	}
}

func TestMemoryStore(t *testing.T) {
	var m Memory
	if err := m.Set("tok"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	token, _ := m.Token()
	if token != "tok" {
		t.Fatalf("got %q, want tok", token)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	token, _ = m.Token()
	if token != "" {
		t.Fatalf("token survived Clear(): %q", token)
	}
}
