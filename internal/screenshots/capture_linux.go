// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build linux

package screenshots

import (
	"context"
	"fmt"
	"os/exec"
)

// capture tries the common capture tools in order of preference.
// Which one exists depends on the desktop environment.
func capture(ctx context.Context, path string) error {
	candidates := [][]string{
		{"gnome-screenshot", "-f", path},
		{"scrot", "-o", path},
		{"import", "-window", "root", path},
	}

	var lastErr error
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err != nil {
			continue
		}
		if err := exec.CommandContext(ctx, c[0], c[1:]...).Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", c[0], err)
			continue
		}
		return nil
	}

	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("no screenshot tool found (tried gnome-screenshot, scrot, import)")
}
