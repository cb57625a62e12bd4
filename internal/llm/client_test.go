// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/snapsolve/internal/state"
)

// fakeBackend records the last call and returns canned responses.
type fakeBackend struct {
	lastPrompt string
	lastImages []string
	lastAudio  string
	lastFormat string
	response   string
	err        error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) ChatText(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeBackend) ChatVision(ctx context.Context, prompt string, imagesB64 []string) (string, error) {
	f.lastPrompt = prompt
	f.lastImages = imagesB64
	return f.response, f.err
}

func (f *fakeBackend) ChatAudio(ctx context.Context, prompt, audioB64, format string) (string, error) {
	f.lastPrompt = prompt
	f.lastAudio = audioB64
	f.lastFormat = format
	return f.response, f.err
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeImageEncodesFile(t *testing.T) {
	fb := &fakeBackend{response: "2+2=4"}
	c := NewClientWithLimit(fb, 0, 1)
	path := writeTempFile(t, "shot.png", []byte("pngbytes"))

	got, err := c.AnalyzeImage(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2+2=4" {
		t.Errorf("unexpected result %q", got)
	}
	want := base64.StdEncoding.EncodeToString([]byte("pngbytes"))
	if len(fb.lastImages) != 1 || fb.lastImages[0] != want {
		t.Errorf("expected encoded file contents, got %v", fb.lastImages)
	}
}

func TestAnalyzeImageMissingFile(t *testing.T) {
	c := NewClientWithLimit(&fakeBackend{}, 0, 1)
	if _, err := c.AnalyzeImage(context.Background(), "/nonexistent/shot.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAnalyzeAudioFileFormatFromExtension(t *testing.T) {
	fb := &fakeBackend{response: "transcript"}
	c := NewClientWithLimit(fb, 0, 1)
	path := writeTempFile(t, "voice.m4a", []byte("audiobytes"))

	if _, err := c.AnalyzeAudioFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if fb.lastFormat != "m4a" {
		t.Errorf("expected format m4a, got %q", fb.lastFormat)
	}
	want := base64.StdEncoding.EncodeToString([]byte("audiobytes"))
	if fb.lastAudio != want {
		t.Error("audio payload should be base64 of the file contents")
	}
}

func TestGenerateSolutionIncludesStatement(t *testing.T) {
	fb := &fakeBackend{response: "solution"}
	c := NewClientWithLimit(fb, 0, 1)

	_, err := c.GenerateSolution(context.Background(), state.ProblemInfo{
		ProblemStatement: "reverse a linked list",
		Complexity:       "O(n)",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(fb.lastPrompt, "reverse a linked list") {
		t.Errorf("prompt should contain the problem statement, got %q", fb.lastPrompt)
	}
	if !strings.Contains(fb.lastPrompt, "O(n)") {
		t.Errorf("prompt should contain the complexity target, got %q", fb.lastPrompt)
	}
}

func TestDebugSolutionSendsAllImages(t *testing.T) {
	fb := &fakeBackend{response: "fixed"}
	c := NewClientWithLimit(fb, 0, 1)
	p1 := writeTempFile(t, "a.png", []byte("one"))
	p2 := writeTempFile(t, "b.png", []byte("two"))

	_, err := c.DebugSolution(context.Background(), "int main(){}", []string{p1, p2})
	if err != nil {
		t.Fatal(err)
	}
	if len(fb.lastImages) != 2 {
		t.Errorf("expected 2 images, got %d", len(fb.lastImages))
	}
	if !strings.Contains(fb.lastPrompt, "int main(){}") {
		t.Errorf("prompt should carry the proposed solution, got %q", fb.lastPrompt)
	}
}

func TestBackendErrorPropagates(t *testing.T) {
	sentinel := errors.New("backend down")
	c := NewClientWithLimit(&fakeBackend{err: sentinel}, 0, 1)
	path := writeTempFile(t, "shot.png", []byte("x"))

	_, err := c.AnalyzeImageMCQ(context.Background(), path)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected backend error to propagate, got %v", err)
	}
}

func TestCanceledContextStopsCall(t *testing.T) {
	c := NewClient(&fakeBackend{response: "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.AnalyzeAudioBytes(ctx, "YQ==", "mp3"); err == nil {
		t.Error("expected error for canceled context")
	}
}
