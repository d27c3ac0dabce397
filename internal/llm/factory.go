package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/serpscope/serpscope/internal/types"
)

// Default endpoints per provider kind. A provider row may override these;
// the defaults match each vendor's public API. Gemini is absent because its
// generateContent URL names the model and is derived in New.
var defaultEndpoints = map[types.ProviderKind]string{
	types.KindOpenAI:     "https://api.openai.com/v1/chat/completions",
	types.KindGrok:       "https://api.x.ai/v1/chat/completions",
	types.KindMistral:    "https://api.mistral.ai/v1/chat/completions",
	types.KindPerplexity: "https://api.perplexity.ai/chat/completions",
}

// geminiEndpointFmt builds the generateContent URL for a Gemini model
const geminiEndpointFmt = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// Default models per provider kind
var defaultModels = map[types.ProviderKind]string{
	types.KindOpenAI:     "gpt-4o-mini",
	types.KindGemini:     "gemini-pro",
	types.KindGrok:       "grok-2-latest",
	types.KindMistral:    "mistral-small-latest",
	types.KindPerplexity: "sonar",
}

// New builds a Client for a configured provider row. The API key is read
// from the environment variable the row names; a missing key is an error so
// the scheduler can record the provider's pairs as auth failures up front
// instead of burning retry budget on guaranteed-to-fail calls.
func New(p *types.Provider, timeout time.Duration) (Client, error) {
	if p.APIKeyEnv == "" {
		return nil, fmt.Errorf("provider %s has no API key reference", p.Name)
	}
	apiKey := os.Getenv(p.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: environment variable %s is not set", p.Name, p.APIKeyEnv)
	}

	model := p.Model
	if model == "" {
		model = defaultModels[p.Kind]
	}
	endpoint := p.Endpoint
	if endpoint == "" {
		if p.Kind == types.KindGemini {
			// The model override has to reach the URL, not a request field
			endpoint = fmt.Sprintf(geminiEndpointFmt, model)
		} else {
			endpoint = defaultEndpoints[p.Kind]
		}
	}

	switch p.Kind {
	case types.KindOpenAI, types.KindGrok, types.KindMistral, types.KindPerplexity:
		return NewChatClient(p.Name, endpoint, model, apiKey, timeout), nil
	case types.KindGemini:
		return NewGeminiClient(p.Name, endpoint, apiKey, timeout), nil
	case types.KindAnthropic:
		return NewAnthropicClient(p.Name, endpoint, model, apiKey, timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider kind: %s", p.Kind)
	}
}
