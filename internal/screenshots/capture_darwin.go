// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build darwin

package screenshots

import (
	"context"
	"os/exec"
)

// capture uses the system screencapture tool. -x suppresses the
// shutter sound so captures stay unobtrusive.
func capture(ctx context.Context, path string) error {
	return exec.CommandContext(ctx, "screencapture", "-x", path).Run()
}
