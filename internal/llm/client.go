// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/jeranaias/snapsolve/internal/state"
)

// Rate limiting defaults. Global hotkeys make it easy to fire many
// requests back to back; the bucket smooths that out without adding
// latency to a single press.
const (
	// DefaultRequestsPerSecond paces calls to the backend.
	DefaultRequestsPerSecond = 1.0

	// DefaultBurst allows a short run of presses through unpaced.
	DefaultBurst = 3
)

// Client runs the analysis operations over a chat backend.
type Client struct {
	backend Backend
	limiter *rate.Limiter
}

// NewClient creates a client with default request pacing.
func NewClient(backend Backend) *Client {
	return NewClientWithLimit(backend, DefaultRequestsPerSecond, DefaultBurst)
}

// NewClientWithLimit creates a client with explicit pacing. A
// non-positive rps disables pacing.
func NewClientWithLimit(backend Backend, rps float64, burst int) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &Client{
		backend: backend,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Backend returns the active backend.
func (c *Client) Backend() Backend {
	return c.backend
}

// wait blocks until the limiter admits the next request.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// encodeFile reads a file and returns its base64 encoding.
func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// audioFormat derives the wire format name from a file extension.
func audioFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "mp3"
	}
	return ext
}

// =============================================================================
// ANALYSIS OPERATIONS
// =============================================================================

// AnalyzeAudioFile runs audio understanding on a captured audio file
// and returns the extracted problem text.
func (c *Client) AnalyzeAudioFile(ctx context.Context, path string) (string, error) {
	encoded, err := encodeFile(path)
	if err != nil {
		return "", err
	}
	return c.AnalyzeAudioBytes(ctx, encoded, audioFormat(path))
}

// AnalyzeAudioBytes runs audio understanding on base64-encoded audio.
func (c *Client) AnalyzeAudioBytes(ctx context.Context, audioB64, format string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.backend.ChatAudio(ctx, promptAudio, audioB64, format)
}

// AnalyzeImage extracts the problem shown in a screenshot.
func (c *Client) AnalyzeImage(ctx context.Context, path string) (string, error) {
	return c.visionOp(ctx, promptImage, path)
}

// AnalyzeImageMCQ extracts and answers a multiple-choice question
// shown in a screenshot.
func (c *Client) AnalyzeImageMCQ(ctx context.Context, path string) (string, error) {
	return c.visionOp(ctx, promptMCQ, path)
}

// AnalyzeImageCode produces a code solution for the programming
// problem shown in a screenshot. The response is expected to be a
// single fenced code block.
func (c *Client) AnalyzeImageCode(ctx context.Context, path string) (string, error) {
	return c.visionOp(ctx, promptCode, path)
}

// GenerateSolution re-derives a solution from a committed problem.
func (c *Client) GenerateSolution(ctx context.Context, problem state.ProblemInfo) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(promptSolution)
	b.WriteString(problem.ProblemStatement)
	if problem.Complexity != "" {
		b.WriteString("\n\nTarget complexity: ")
		b.WriteString(problem.Complexity)
	}
	return c.backend.ChatText(ctx, b.String())
}

// DebugSolution critiques a solution against screenshots of its
// current behavior and returns a corrected version.
func (c *Client) DebugSolution(ctx context.Context, solution string, imagePaths []string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	images := make([]string, 0, len(imagePaths))
	for _, path := range imagePaths {
		encoded, err := encodeFile(path)
		if err != nil {
			return "", err
		}
		images = append(images, encoded)
	}
	return c.backend.ChatVision(ctx, promptDebug+solution, images)
}

// visionOp encodes one image and runs a vision prompt against it.
func (c *Client) visionOp(ctx context.Context, prompt, path string) (string, error) {
	encoded, err := encodeFile(path)
	if err != nil {
		return "", err
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.backend.ChatVision(ctx, prompt, []string{encoded})
}
