// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.Append("image", "reverse a linked list", "custom")
	if err != nil {
		t.Fatal(err)
	}
	if id1 == "" {
		t.Error("expected a non-empty id")
	}
	if _, err := s.Append("mcq", "which sorting algorithm is stable?", "easy"); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ProblemStatement == "" || e.Kind == "" || e.CreatedAt.IsZero() {
			t.Errorf("incomplete entry %+v", e)
		}
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.Append("image", "problem", "custom"); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}

	if entries, _ := s.Recent(0); entries != nil {
		t.Error("Recent(0) should return nothing")
	}
}

func TestEmptyStore(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.Recent(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
