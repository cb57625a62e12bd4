// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hotkeys owns the process-wide global shortcut table.
//
// The OS shortcut table is a shared, externally mutable resource:
// accelerators may already be claimed by unrelated software, and a
// failed claim must degrade the one affected action rather than crash
// the host. Registry wraps that resource with an explicit lifecycle
// (register, verify, teardown), ordered fallback negotiation, and a
// uniform error boundary around every dispatched handler.
//
// No other package may touch the OS registration API directly.
package hotkeys
