// Package openai implements ports.CompletionService against an
// OpenAI-compatible chat completions endpoint.
package openai

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

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

// Client calls a chat completions API. Any transport fault, non-2xx
// status, timeout, or malformed body is reported as a wrapped
// domain.ErrCompletionUnavailable so responders can take their local
// recovery path without inspecting the cause.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

var _ ports.CompletionService = (*Client)(nil)

type Option func(*Client)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithTimeout bounds each completion call. A call exceeding it is a
// completion failure, never a hung turn.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a completion client for the given endpoint.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       "gpt-4o-mini",
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// Complete sends the history to the completions endpoint. When
// systemOverride is non-empty it is prepended as the system message.
func (c *Client) Complete(ctx context.Context, messages []domain.Message, systemOverride string) (string, error) {
	req := chatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
	}
	if systemOverride != "" {
		req.Messages = append(req.Messages, chatMessage{Role: string(domain.RoleSystem), Content: systemOverride})
	}
	for _, m := range messages {
		if m.Role == domain.RoleSystem && systemOverride != "" {
			continue // the override replaces conversation-level system prompts
		}
		req.Messages = append(req.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrCompletionUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrCompletionUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrCompletionUnavailable, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrCompletionUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domain.ErrCompletionUnavailable)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrCompletionUnavailable)
	}
	return text, nil
}

// IsUnavailable reports whether err is a completion-service failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrCompletionUnavailable)
}
