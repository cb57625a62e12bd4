// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm implements the analysis operations the orchestrator
// consumes: audio understanding, image extraction, multiple-choice
// extraction, code-oriented analysis, solution generation, and the
// vision-augmented debug pass.
//
// Prompt construction lives here. The actual chat call goes through
// the Backend interface with adapters for the local Ollama server
// (internal/ollama) and the hosted OpenRouter API (internal/cloud).
// Requests are paced by a token-bucket limiter so a burst of hotkey
// presses cannot flood a backend.
package llm
