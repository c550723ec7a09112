package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crianza/backend/internal/config"
)

func newFakeGroqClient(t *testing.T, handler http.HandlerFunc) (*GroqChatClient, *httptest.Server) {
	t.Helper()
	fake := httptest.NewServer(handler)
	t.Cleanup(fake.Close)

	client := NewGroqChatClient(config.Config{
		GroqAPIKey:       "test-key",
		GroqModel:        "llama-3.1-8b-instant",
		GroqBaseURL:      fake.URL,
		AITimeoutSeconds: 5,
	})
	return client, fake
}

func simpleCompletionRequest() CompletionRequest {
	return CompletionRequest{
		Messages: []ChatTurn{
			{Role: "system", Content: "sistema"},
			{Role: "user", Content: "hola"},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

func TestGroqClientCompleteSuccess(t *testing.T) {
	var captured map[string]any
	client, _ := newFakeGroqClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"respuesta generada"}}]}`))
	})

	answer, err := client.Complete(context.Background(), simpleCompletionRequest())
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if answer != "respuesta generada" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if captured["model"] != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected model in request: %v", captured["model"])
	}
	if captured["temperature"] != 0.7 {
		t.Fatalf("unexpected temperature in request: %v", captured["temperature"])
	}
}

func TestGroqClientCompleteNon2xxIsUnavailable(t *testing.T) {
	client, _ := newFakeGroqClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Complete(context.Background(), simpleCompletionRequest())
	if !errors.Is(err, ErrCompletionUnavailable) {
		t.Fatalf("expected ErrCompletionUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should carry the status code, got %v", err)
	}
}

func TestGroqClientCompleteMissingKeyIsUnavailable(t *testing.T) {
	client := NewGroqChatClient(config.Config{
		GroqBaseURL: "https://api.groq.com/openai/v1",
	})
	if client.Configured() {
		t.Fatalf("client without API key must not report configured")
	}

	_, err := client.Complete(context.Background(), simpleCompletionRequest())
	if !errors.Is(err, ErrCompletionUnavailable) {
		t.Fatalf("expected ErrCompletionUnavailable, got %v", err)
	}
}

func TestGroqClientCompleteEmptyChoicesIsSuccess(t *testing.T) {
	client, _ := newFakeGroqClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	answer, err := client.Complete(context.Background(), simpleCompletionRequest())
	if err != nil {
		t.Fatalf("empty choices must not be an error, got %v", err)
	}
	if answer != "" {
		t.Fatalf("expected empty answer, got %q", answer)
	}
}

func TestGroqClientCompleteMalformedBodyIsUnavailable(t *testing.T) {
	client, _ := newFakeGroqClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.Complete(context.Background(), simpleCompletionRequest())
	if !errors.Is(err, ErrCompletionUnavailable) {
		t.Fatalf("expected ErrCompletionUnavailable, got %v", err)
	}
}
