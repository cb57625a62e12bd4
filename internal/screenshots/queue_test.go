// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screenshots

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempArtifact(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("png"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPushKeepsOldestFirstOrder(t *testing.T) {
	q := NewQueue(5)
	q.Push(TargetPrimary, "one.png")
	q.Push(TargetPrimary, "two.png")
	q.Push(TargetPrimary, "three.png")

	got := q.Primary()
	want := []string{"one.png", "two.png", "three.png"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestQueuesAreIndependent(t *testing.T) {
	q := NewQueue(5)
	q.Push(TargetPrimary, "main.png")
	q.Push(TargetDebug, "extra.png")

	if len(q.Primary()) != 1 || q.Primary()[0] != "main.png" {
		t.Errorf("unexpected primary queue: %v", q.Primary())
	}
	if len(q.Debug()) != 1 || q.Debug()[0] != "extra.png" {
		t.Errorf("unexpected debug queue: %v", q.Debug())
	}
}

func TestPushEvictsOldestWhenFull(t *testing.T) {
	evicted := tempArtifact(t, "oldest.png")

	q := NewQueue(2)
	q.Push(TargetPrimary, evicted)
	q.Push(TargetPrimary, "second.png")
	q.Push(TargetPrimary, "third.png")

	got := q.Primary()
	if len(got) != 2 || got[0] != "second.png" || got[1] != "third.png" {
		t.Fatalf("unexpected queue after eviction: %v", got)
	}
	if _, err := os.Stat(evicted); !os.IsNotExist(err) {
		t.Error("evicted artifact should be removed from disk")
	}
}

func TestClearAllEmptiesBothAndRemovesFiles(t *testing.T) {
	a := tempArtifact(t, "a.png")
	b := tempArtifact(t, "b.png")

	q := NewQueue(5)
	q.Push(TargetPrimary, a)
	q.Push(TargetDebug, b)
	q.ClearAll()

	if len(q.Primary()) != 0 || len(q.Debug()) != 0 {
		t.Error("queues should be empty after ClearAll")
	}
	for _, path := range []string{a, b} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s should be removed from disk", path)
		}
	}
}

func TestPreviewDataURL(t *testing.T) {
	path := tempArtifact(t, "shot.png")

	preview, err := Preview(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(preview, "data:image/png;base64,") {
		t.Errorf("unexpected preview prefix: %q", preview[:32])
	}
}

func TestPreviewMissingFile(t *testing.T) {
	if _, err := Preview(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Error("expected error for missing artifact")
	}
}
