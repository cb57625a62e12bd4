// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package ollama

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// findOllamaExecutable searches for ollama.exe in PATH and the common
// Windows installation directories.
func findOllamaExecutable() (string, error) {
	if path, err := exec.LookPath("ollama"); err == nil {
		return path, nil
	}

	var possiblePaths []string
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(localAppData, "Programs", "Ollama", "ollama.exe"),
		)
	}
	if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(programFiles, "Ollama", "ollama.exe"),
		)
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("ollama not found in PATH or common installation directories")
}

// startOllamaProcess starts the Ollama server detached from our
// console, then polls until it answers.
func (c *Client) startOllamaProcess(ctx context.Context) error {
	ollamaPath, err := findOllamaExecutable()
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to find Ollama executable", Cause: err}
	}

	cmd := exec.Command(ollamaPath, "serve")
	cmd.Env = os.Environ()
	// CREATE_NEW_PROCESS_GROUP | DETACHED_PROCESS keeps the server
	// alive after the assistant exits and off our console.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: 0x00000200 | 0x00000008,
	}

	if err := cmd.Start(); err != nil {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: fmt.Sprintf("failed to start Ollama (path: %s)", ollamaPath),
			Cause:   err,
		}
	}
	if cmd.Process != nil {
		_ = cmd.Process.Release()
	}

	deadline := time.Now().Add(10 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return &ClientError{Type: ErrTypeConnection, Message: "Ollama startup cancelled", Cause: ctx.Err()}
		default:
		}

		checkCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		lastErr = c.CheckRunning(checkCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}

	return &ClientError{
		Type:    ErrTypeConnection,
		Message: fmt.Sprintf("Ollama started but not responding after 10 seconds (path: %s)", ollamaPath),
		Cause:   lastErr,
	}
}
