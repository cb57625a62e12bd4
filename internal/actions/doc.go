// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package actions binds the global accelerator table to the
// collaborators that do the work: the processing orchestrator, the
// screenshot queues, the window accessor, and the event bus.
//
// The router is a pure binding table. It holds no state of its own;
// failures surface from the bound action, never from routing.
package actions
