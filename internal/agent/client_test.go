package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestClientAnthropicRequest(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("missing x-api-key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "thinking", "text": "internal reasoning"},
				{"type": "text", "text": "The inn was quiet."},
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", WithAPIConfig(server.URL, "test-model"))
	cfg := DefaultGenConfig()

	text, err := c.Generate(context.Background(), "be a novelist",
		[]Message{{Role: "user", Content: "write"}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if text != "The inn was quiet." {
		t.Errorf("text = %q (reasoning blocks must be skipped)", text)
	}

	if gotBody["system"] != "be a novelist" {
		t.Error("system prompt not passed as top-level param")
	}
	if _, ok := gotBody["thinking"]; !ok {
		t.Error("extended reasoning config not forwarded")
	}
}

func TestClientOpenAIRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		var body struct {
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("system prompt should be prepended as a message, got %+v", body.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "done"}},
			},
		})
	}))
	defer server.Close()

	// An "openai" base URL flips the wire format.
	c := NewClient("k", WithAPIConfig(server.URL+"/openai", "gpt-4.1"))

	text, err := c.Generate(context.Background(), "sys",
		[]Message{{Role: "user", Content: "hi"}}, GenConfig{MaxTokens: 100})
	if err != nil {
		t.Fatal(err)
	}
	if text != "done" {
		t.Errorf("text = %q", text)
	}
}

func TestClientRetriesAndWrapsError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient("k",
		WithAPIConfig(server.URL, "m"),
		WithRetry(2),
		WithRateLimit(6000, 10))

	_, err := c.Generate(context.Background(), "", []Message{{Role: "user", Content: "x"}},
		GenConfig{MaxTokens: 10})
	if err == nil {
		t.Fatal("want error after exhausted retries")
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("want GenerationError, got %T", err)
	}
	if genErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", genErr.StatusCode)
	}
	if !errors.Is(err, ErrGeneration) {
		t.Error("GenerationError should unwrap to ErrGeneration")
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 1 + 2 retries", got)
	}
}

func TestClientRecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "flake", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "second try"}},
		})
	}))
	defer server.Close()

	c := NewClient("k", WithAPIConfig(server.URL, "m"), WithRetry(3), WithRateLimit(6000, 10))

	text, err := c.Generate(context.Background(), "", []Message{{Role: "user", Content: "x"}},
		GenConfig{MaxTokens: 10})
	if err != nil {
		t.Fatal(err)
	}
	if text != "second try" {
		t.Errorf("text = %q", text)
	}
}
