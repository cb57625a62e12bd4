// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screenshots

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CAPTURE
// =============================================================================

// Capturer takes full-screen screenshots into a working directory.
// The actual capture command is platform-specific (see capture_*.go).
type Capturer struct {
	dir     string
	timeout time.Duration
}

// NewCapturer creates a capturer writing into dir. An empty dir
// defaults to ~/.snapsolve/screenshots.
func NewCapturer(dir string) (*Capturer, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".snapsolve", "screenshots")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create screenshot directory: %w", err)
	}
	return &Capturer{dir: dir, timeout: 10 * time.Second}, nil
}

// TakeScreenshot captures the screen and returns the PNG path.
func (c *Capturer) TakeScreenshot(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	path := filepath.Join(c.dir, uuid.New().String()+".png")
	if err := capture(ctx, path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("capture screenshot: %w", err)
	}

	// Some tools exit zero without writing on a denied permission.
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		os.Remove(path)
		return "", fmt.Errorf("capture produced no image at %s", path)
	}
	return path, nil
}

// Preview returns the artifact as a data URL for the presentation layer.
func Preview(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read screenshot: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
