package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crianza/backend/internal/config"
)

// ErrCompletionUnavailable marks every failure mode of the external
// completion service: missing credentials, transport errors, non-2xx
// responses. Callers match it with errors.Is and switch to the local
// fallback instead of surfacing an error.
var ErrCompletionUnavailable = errors.New("completion service unavailable")

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Messages    []ChatTurn
	Temperature float64
	MaxTokens   int
}

type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// GroqChatClient talks to Groq's OpenAI-compatible chat completions
// endpoint. One attempt per request, no retry or backoff.
type GroqChatClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGroqChatClient(cfg config.Config) *GroqChatClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	return &GroqChatClient{
		apiKey:  strings.TrimSpace(cfg.GroqAPIKey),
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.GroqBaseURL), "/"),
		model:   strings.TrimSpace(cfg.GroqModel),
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// Configured reports whether the client has credentials at all, letting
// the orchestrator skip the network round-trip entirely.
func (c *GroqChatClient) Configured() bool {
	return c.apiKey != ""
}

func (c *GroqChatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY is not configured", ErrCompletionUnavailable)
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("%w: GROQ_BASE_URL is not configured", ErrCompletionUnavailable)
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("%w: request has no messages", ErrCompletionUnavailable)
	}

	payload := map[string]any{
		"model":       c.model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(bodyRaw),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf(
			"%w: groq responded %d: %s",
			ErrCompletionUnavailable,
			response.StatusCode,
			truncateForLog(string(responseBody), 600),
		)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	// Empty content is a successful (if useless) completion, not failure.
	return parsed.Choices[0].Message.Content, nil
}

// MockCompletionClient stands in for Groq in tests and local dev.
type MockCompletionClient struct {
	Answer string
	Err    error
}

func (m MockCompletionClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Answer != "" {
		return m.Answer, nil
	}
	last := ""
	for _, turn := range req.Messages {
		if strings.EqualFold(strings.TrimSpace(turn.Role), "user") {
			last = strings.TrimSpace(turn.Content)
		}
	}
	return "Respuesta de prueba: " + last, nil
}
