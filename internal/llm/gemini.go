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

// GeminiClient speaks Google's generateContent wire format. The API key
// travels as a query parameter rather than a bearer header.
type GeminiClient struct {
	name     string
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewGeminiClient creates a client for the Gemini generateContent API.
// The endpoint already names the model (e.g. .../models/gemini-pro:generateContent).
func NewGeminiClient(name, endpoint, apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     httpClientFor(timeout),
	}
}

func (c *GeminiClient) Name() string { return c.name }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends one generateContent request and returns the response text
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("encode request: %w", err))
	}

	url := c.endpoint + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", classified(c.name, types.ErrTransport, err)
	}
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

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("response contained no candidates"))
	}

	text := ""
	for _, part := range parsed.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", classified(c.name, types.ErrMalformedResponse, fmt.Errorf("response contained no text"))
	}

	return text, nil
}
