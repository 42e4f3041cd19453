package store

import (
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set(KeyToken, "abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var token string
	found, err := s.Get(KeyToken, &token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || token != "abc123" {
		t.Errorf("Get = %q, %v; want abc123, true", token, found)
	}
}

func TestFileStoreAbsentKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	var out string
	found, err := s.Get("missing", &out)
	if err != nil {
		t.Fatalf("an absent key is not an error: %v", err)
	}
	if found {
		t.Error("found should be false for an absent key")
	}
}

func TestFileStoreDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set(KeyIdentity, map[string]int{"user_id": 7}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete(KeyIdentity); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var out map[string]int
	if found, _ := s.Get(KeyIdentity, &out); found {
		t.Error("deleted key should be absent")
	}

	// Deleting again is fine.
	if err := s.Delete(KeyIdentity); err != nil {
		t.Errorf("double delete: %v", err)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := first.Set(KeyRecentSearches, []string{"tarkovsky"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore reopen: %v", err)
	}
	var terms []string
	found, err := second.Get(KeyRecentSearches, &terms)
	if err != nil || !found {
		t.Fatalf("Get after reopen = %v, %v", found, err)
	}
	if len(terms) != 1 || terms[0] != "tarkovsky" {
		t.Errorf("terms = %v, want [tarkovsky]", terms)
	}
}
