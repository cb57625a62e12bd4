// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Configuration constants for the OpenRouter API.
const (
	// DefaultBaseURL is the base URL for the OpenRouter API.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for
	// transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// maxResponseSize caps response bodies to keep a misbehaving
	// endpoint from exhausting memory.
	maxResponseSize = 10 * 1024 * 1024
)

// sharedHTTPClient pools connections across all OpenRouter requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("OpenRouter API key not configured")

	// ErrAuthFailed indicates authentication failed.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrInsufficientCredits indicates the account is out of credits.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// APIError represents an error response from the OpenRouter API.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("OpenRouter error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("OpenRouter error (HTTP %d): %s", e.Status, e.Message)
}

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type       string      `json:"type"` // "text", "image_url", "input_audio"
	Text       string      `json:"text,omitempty"`
	ImageURL   *ImageURL   `json:"image_url,omitempty"`
	InputAudio *InputAudio `json:"input_audio,omitempty"`
}

// ImageURL carries an image as a data URL or remote URL.
type ImageURL struct {
	URL string `json:"url"`
}

// InputAudio carries base64 audio with its container format.
type InputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"` // "mp3", "wav"
}

// ChatMessage is a single message in a chat conversation. Content is
// either a plain string or a []ContentPart for multimodal messages.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// NewUserMessage creates a plain text user message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

// NewVisionMessage creates a user message carrying a prompt and images
// as data URLs.
func NewVisionMessage(prompt string, imageDataURLs []string) ChatMessage {
	parts := []ContentPart{{Type: "text", Text: prompt}}
	for _, url := range imageDataURLs {
		parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}})
	}
	return ChatMessage{Role: "user", Content: parts}
}

// NewAudioMessage creates a user message carrying a prompt and one
// base64 audio payload.
func NewAudioMessage(prompt, audioBase64, format string) ChatMessage {
	return ChatMessage{Role: "user", Content: []ContentPart{
		{Type: "text", Text: prompt},
		{Type: "input_audio", InputAudio: &InputAudio{Data: audioBase64, Format: format}},
	}}
}

// ChatRequest is a request to the chat completions endpoint.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a response from the chat completions endpoint.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GetContent returns the content of the first choice, or "".
func (r *ChatResponse) GetContent() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

// apiErrorResponse is the error envelope from the API.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with the OpenRouter API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
	maxRetries int
	siteURL    string
	siteName   string
}

// NewClient creates an OpenRouter client. The key format is
// "sk-or-..."; an empty key defers failure to the first request,
// which returns ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: sharedHTTPClient,
		model:      "openrouter/auto",
		maxRetries: DefaultMaxRetries,
	}
}

// WithBaseURL overrides the API base URL (testing, proxies).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// WithModel sets the model identifier used for requests.
func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

// WithMaxRetries overrides the retry count for transient failures.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithSite sets the optional attribution headers OpenRouter suggests.
func (c *Client) WithSite(url, name string) *Client {
	c.siteURL = url
	c.siteName = name
	return c
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Chat sends messages to the configured model and returns the
// complete response, retrying transient failures with backoff.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (*ChatResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	req := ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		resp, err := c.doRequest(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// doRequest performs a single chat-completions call.
func (c *Client) doRequest(ctx context.Context, reqBody ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		req.Header.Set("X-Title", c.siteName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, data)
	}

	var result ChatResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// handleErrorResponse maps API error envelopes to typed errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var envelope apiErrorResponse
	message := ""
	code := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		message = envelope.Error.Message
		code = envelope.Error.Code
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailed, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrModelNotFound, message)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", ErrInsufficientCredits, message)
	}
	return &APIError{Code: code, Message: message, Status: statusCode}
}

// isRetryable reports whether an error is transient.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	// Network-level failures are wrapped plain errors; retry those but
	// never auth, credit, or model errors.
	return !errors.Is(err, ErrAuthFailed) &&
		!errors.Is(err, ErrInsufficientCredits) &&
		!errors.Is(err, ErrModelNotFound) &&
		!errors.Is(err, ErrNotConfigured) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// backoff computes the exponential backoff delay for an attempt.
func (c *Client) backoff(attempt int) time.Duration {
	d := time.Duration(float64(retryBaseDelay) * math.Pow(2, float64(attempt-1)))
	if d > retryMaxDelay {
		return retryMaxDelay
	}
	return d
}
