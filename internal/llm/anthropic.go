package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/serpscope/serpscope/internal/types"
)

// DefaultAnthropicModel is used when the provider row doesn't name one
const DefaultAnthropicModel = "claude-3-5-haiku-20241022"

// AnthropicClient wraps the official Anthropic SDK behind the Client contract
type AnthropicClient struct {
	name    string
	model   string
	client  anthropic.Client
	timeout time.Duration
}

// NewAnthropicClient creates a client backed by the Anthropic Messages API.
// An empty endpoint uses the SDK default; an empty model uses Haiku.
func NewAnthropicClient(name, endpoint, model, apiKey string, timeout time.Duration) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AnthropicClient{
		name:    name,
		model:   model,
		client:  anthropic.NewClient(opts...),
		timeout: timeout,
	}
}

func (c *AnthropicClient) Name() string { return c.name }

// Complete sends one Messages request and concatenates the text blocks
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1000,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classifyMessage(c.name, err)
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("response contained no text blocks"))
	}

	return text, nil
}
