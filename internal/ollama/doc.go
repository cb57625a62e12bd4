// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama is the HTTP client for a local Ollama model server.
//
// snapsolve uses it as the local analysis backend: multimodal chat
// requests carry base64-encoded screenshots to a vision-capable model,
// and plain chat requests back the solution and debug prompts. All
// requests are context-aware; cancellation detaches the caller while
// the server finishes or aborts on its own.
//
// The hosted alternative lives in internal/cloud; which backend a
// build talks to is decided by configuration, not by this package.
package ollama
