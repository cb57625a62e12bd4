// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clipboard wraps system clipboard access behind a small
// interface so workflows can be tested without a display server.
package clipboard

import "github.com/atotto/clipboard"

// Writer writes text to a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System is the real OS clipboard.
type System struct{}

// WriteText places text on the system clipboard.
func (System) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
