// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // The message content

	// Images are base64-encoded image payloads attached to the message.
	// Requires a vision-capable model.
	Images []string `json:"images,omitempty"`
}

// ChatRequest is the request body for the /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// Options contains model parameters for inference.
type Options struct {
	Temperature float64 `json:"temperature,omitempty"` // 0.0-2.0
	TopP        float64 `json:"top_p,omitempty"`       // 0.0-1.0
	NumCtx      int     `json:"num_ctx,omitempty"`     // Context window size
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens, -1 unlimited
	Seed        int     `json:"seed,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the response from the /api/chat endpoint.
type ChatResponse struct {
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
	Message       Message   `json:"message"`
	Done          bool      `json:"done"`
	DoneReason    string    `json:"done_reason,omitempty"`
	TotalDuration int64     `json:"total_duration,omitempty"` // nanoseconds
	EvalCount     int       `json:"eval_count,omitempty"`     // tokens generated
}

// ModelInfo contains information about an installed model.
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// ListModelsResponse is the response from the /api/tags endpoint.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ollamaError is the error envelope the server returns on failures.
type ollamaError struct {
	Error string `json:"error"`
}
