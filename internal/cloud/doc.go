// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the OpenRouter client used as the hosted
// analysis backend.
//
// OpenRouter fronts multiple providers through one chat-completions
// API. snapsolve sends multimodal messages (text plus image or audio
// parts) and retries transient failures with exponential backoff. The
// local alternative lives in internal/ollama; backend choice is
// configuration, not code.
package cloud
