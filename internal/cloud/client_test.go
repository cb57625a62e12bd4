// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func okResponse(content string) ChatResponse {
	var resp ChatResponse
	resp.Choices = []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	}{{}}
	resp.Choices[0].Message.Role = "assistant"
	resp.Choices[0].Message.Content = content
	return resp
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("sk-or-test").WithBaseURL(srv.URL).WithMaxRetries(1)
}

func TestChatNotConfigured(t *testing.T) {
	c := NewClient("")
	_, err := c.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestChatSendsAuthAndModel(t *testing.T) {
	var got ChatRequest
	var auth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(okResponse("answer"))
	})
	c.WithModel("google/gemini-2.0-flash-001")

	resp, err := c.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetContent() != "answer" {
		t.Errorf("unexpected content %q", resp.GetContent())
	}
	if auth != "Bearer sk-or-test" {
		t.Errorf("unexpected auth header %q", auth)
	}
	if got.Model != "google/gemini-2.0-flash-001" {
		t.Errorf("unexpected model %q", got.Model)
	}
	if got.Stream {
		t.Error("requests should be non-streaming")
	}
}

func TestVisionMessageEncoding(t *testing.T) {
	msg := NewVisionMessage("describe", []string{"data:image/png;base64,aW1n"})
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL *struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Content) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(decoded.Content))
	}
	if decoded.Content[0].Type != "text" || decoded.Content[0].Text != "describe" {
		t.Errorf("unexpected text part %+v", decoded.Content[0])
	}
	if decoded.Content[1].Type != "image_url" || decoded.Content[1].ImageURL.URL != "data:image/png;base64,aW1n" {
		t.Errorf("unexpected image part %+v", decoded.Content[1])
	}
}

func TestAudioMessageEncoding(t *testing.T) {
	msg := NewAudioMessage("transcribe", "YXVkaW8=", "mp3")
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Content []struct {
			Type       string `json:"type"`
			InputAudio *struct {
				Data   string `json:"data"`
				Format string `json:"format"`
			} `json:"input_audio"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Content) != 2 || decoded.Content[1].Type != "input_audio" {
		t.Fatalf("expected audio part, got %+v", decoded.Content)
	}
	if decoded.Content[1].InputAudio.Format != "mp3" {
		t.Errorf("unexpected format %q", decoded.Content[1].InputAudio.Format)
	}
}

func TestAuthFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "bad key"}})
	})

	_, err := c.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("auth failure should not be retried, got %d calls", calls.Load())
	}
}

func TestServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(okResponse("recovered"))
	})

	resp, err := c.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetContent() != "recovered" {
		t.Errorf("unexpected content %q", resp.GetContent())
	}
	if calls.Load() != 2 {
		t.Errorf("expected one retry, got %d calls", calls.Load())
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusPaymentRequired, ErrInsufficientCredits},
		{http.StatusNotFound, ErrModelNotFound},
		{http.StatusForbidden, ErrAuthFailed},
	}
	for _, tc := range cases {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		c.WithMaxRetries(0)
		_, err := c.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestRateLimitMapsToSentinel(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c.WithMaxRetries(0)
	_, err := c.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}
