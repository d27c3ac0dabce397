package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/serpscope/serpscope/internal/types"
)

// ChatClient speaks the OpenAI chat-completions wire format. Grok, Mistral,
// and Perplexity expose the same framing on their own endpoints, so one
// implementation covers the whole family; only endpoint, model, and key differ.
type ChatClient struct {
	name     string
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

// NewChatClient creates a client for an OpenAI-compatible provider
func NewChatClient(name, endpoint, model, apiKey string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		name:     name,
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		http:     httpClientFor(timeout),
	}
}

func (c *ChatClient) Name() string { return c.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion request and returns the response text
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", classified(c.name, types.ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", classified(c.name, classFromStatus(resp.StatusCode),
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("response contained no content"))
	}

	return parsed.Choices[0].Message.Content, nil
}
