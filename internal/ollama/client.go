// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Ollama client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning    = &ClientError{Type: ErrTypeNotRunning, Message: "Ollama is not running"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrModelNotFound = &ClientError{Type: ErrTypeModelNotFound, Message: "model not found"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Ollama client.
type ClientConfig struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434)
	// Note: explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	BaseURL string

	// Timeout for requests. Vision analysis over large screenshots is
	// slow on modest hardware, so the default is generous (120s).
	Timeout time.Duration

	// TextModel backs solution generation and debug prompts.
	TextModel string

	// VisionModel backs screenshot analysis. Must be multimodal.
	VisionModel string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     "http://127.0.0.1:11434",
		Timeout:     120 * time.Second,
		TextModel:   "qwen2.5-coder:14b",
		VisionModel: "llama3.2-vision:11b",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Ollama API.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new Ollama client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new Ollama client, filling defaults
// for any zero values in config.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.TextModel == "" {
		config.TextModel = defaults.TextModel
	}
	if config.VisionModel == "" {
		config.VisionModel = defaults.VisionModel
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// TextModel returns the configured text model.
func (c *Client) TextModel() string {
	return c.config.TextModel
}

// VisionModel returns the configured vision model.
func (c *Client) VisionModel() string {
	return c.config.VisionModel
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that Ollama is reachable and running.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from Ollama: " + resp.Status,
		}
	}
	return nil
}

// EnsureRunning checks if Ollama is running, and starts it if not.
// The start logic is platform-specific (see start_unix.go, start_windows.go).
func (c *Client) EnsureRunning(ctx context.Context) error {
	if err := c.CheckRunning(ctx); err == nil {
		return nil
	}
	return c.startOllamaProcess(ctx)
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels retrieves all locally installed models.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to list models: " + resp.Status,
		}
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return result.Models, nil
}

// ModelExists checks if a model is installed locally.
func (c *Client) ModelExists(ctx context.Context, model string) bool {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false
	}
	for _, m := range models {
		if m.Name == model {
			return true
		}
	}
	return false
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends a chat request and returns the complete response.
// An empty model uses the configured text model.
func (c *Client) Chat(ctx context.Context, model string, messages []Message) (*ChatResponse, error) {
	if model == "" {
		model = c.config.TextModel
	}

	reqBody := ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrModelNotFound
	}

	if resp.StatusCode != http.StatusOK {
		var srvErr ollamaError
		if err := json.NewDecoder(resp.Body).Decode(&srvErr); err == nil && srvErr.Error != "" {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: srvErr.Error}
		}
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "chat request failed: " + resp.Status,
		}
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// ChatVision sends a chat request with base64 images attached to the
// final user message, against the configured vision model.
func (c *Client) ChatVision(ctx context.Context, prompt string, images []string) (*ChatResponse, error) {
	messages := []Message{{
		Role:    "user",
		Content: prompt,
		Images:  images,
	}}
	return c.Chat(ctx, c.config.VisionModel, messages)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsModelNotFound checks if an error is a model not found error.
func IsModelNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeModelNotFound
	}
	return false
}

// IsNotRunning checks if an error indicates Ollama is not running.
func IsNotRunning(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotRunning
	}
	return false
}
