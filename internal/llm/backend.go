// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/snapsolve/internal/cloud"
	"github.com/jeranaias/snapsolve/internal/ollama"
)

// ErrAudioUnsupported indicates the active backend cannot process
// audio input.
var ErrAudioUnsupported = errors.New("audio analysis not supported by this backend")

// Backend is the chat surface the analysis operations run against.
// Image payloads are raw base64 (no data-URL prefix); each adapter
// converts to its wire shape.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// ChatText sends a plain text prompt and returns the response text.
	ChatText(ctx context.Context, prompt string) (string, error)

	// ChatVision sends a prompt with one or more base64 images.
	ChatVision(ctx context.Context, prompt string, imagesB64 []string) (string, error)

	// ChatAudio sends a prompt with one base64 audio payload. Backends
	// without audio support return ErrAudioUnsupported.
	ChatAudio(ctx context.Context, prompt, audioB64, format string) (string, error)
}

// =============================================================================
// OLLAMA ADAPTER
// =============================================================================

// OllamaBackend adapts the local Ollama client to the Backend
// interface. Audio is not supported locally.
type OllamaBackend struct {
	client *ollama.Client
}

// NewOllamaBackend wraps an Ollama client.
func NewOllamaBackend(client *ollama.Client) *OllamaBackend {
	return &OllamaBackend{client: client}
}

// Name implements Backend.
func (b *OllamaBackend) Name() string { return "ollama" }

// ChatText implements Backend using the configured text model.
func (b *OllamaBackend) ChatText(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Chat(ctx, "", []ollama.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// ChatVision implements Backend using the configured vision model.
func (b *OllamaBackend) ChatVision(ctx context.Context, prompt string, imagesB64 []string) (string, error) {
	resp, err := b.client.ChatVision(ctx, prompt, imagesB64)
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// ChatAudio implements Backend. Local models served over the Ollama
// chat API take text and images only.
func (b *OllamaBackend) ChatAudio(ctx context.Context, prompt, audioB64, format string) (string, error) {
	return "", fmt.Errorf("%w: ollama", ErrAudioUnsupported)
}

// =============================================================================
// OPENROUTER ADAPTER
// =============================================================================

// CloudBackend adapts the OpenRouter client to the Backend interface.
type CloudBackend struct {
	client *cloud.Client
}

// NewCloudBackend wraps an OpenRouter client.
func NewCloudBackend(client *cloud.Client) *CloudBackend {
	return &CloudBackend{client: client}
}

// Name implements Backend.
func (b *CloudBackend) Name() string { return "openrouter" }

// ChatText implements Backend.
func (b *CloudBackend) ChatText(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Chat(ctx, []cloud.ChatMessage{cloud.NewUserMessage(prompt)})
	if err != nil {
		return "", err
	}
	return resp.GetContent(), nil
}

// ChatVision implements Backend. Raw base64 images become PNG data
// URLs on the wire.
func (b *CloudBackend) ChatVision(ctx context.Context, prompt string, imagesB64 []string) (string, error) {
	urls := make([]string, len(imagesB64))
	for i, img := range imagesB64 {
		urls[i] = "data:image/png;base64," + img
	}
	resp, err := b.client.Chat(ctx, []cloud.ChatMessage{cloud.NewVisionMessage(prompt, urls)})
	if err != nil {
		return "", err
	}
	return resp.GetContent(), nil
}

// ChatAudio implements Backend.
func (b *CloudBackend) ChatAudio(ctx context.Context, prompt, audioB64, format string) (string, error) {
	resp, err := b.client.Chat(ctx, []cloud.ChatMessage{cloud.NewAudioMessage(prompt, audioB64, format)})
	if err != nil {
		return "", err
	}
	return resp.GetContent(), nil
}
