package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/serpscope/serpscope/internal/types"
)

func TestNewRequiresAPIKey(t *testing.T) {
	p := &types.Provider{ID: "p1", Name: "openai", Kind: types.KindOpenAI}
	if _, err := New(p, time.Second); err == nil {
		t.Error("Expected an error for a provider with no key reference")
	}

	p.APIKeyEnv = "SERPSCOPE_TEST_UNSET_KEY"
	if _, err := New(p, time.Second); err == nil {
		t.Error("Expected an error when the key env var is unset")
	}
}

func TestNewByKind(t *testing.T) {
	t.Setenv("SERPSCOPE_TEST_KEY", "sk-test")

	kinds := []types.ProviderKind{
		types.KindOpenAI, types.KindGrok, types.KindMistral,
		types.KindPerplexity, types.KindGemini, types.KindAnthropic,
	}

	for _, kind := range kinds {
		p := &types.Provider{
			ID: "p1", Name: string(kind), Kind: kind,
			APIKeyEnv: "SERPSCOPE_TEST_KEY",
		}
		client, err := New(p, time.Second)
		if err != nil {
			t.Errorf("%s: New failed: %v", kind, err)
			continue
		}
		if client.Name() != string(kind) {
			t.Errorf("%s: expected client named after the provider, got %q", kind, client.Name())
		}
	}
}

// TestNewGeminiModelInEndpoint verifies a Gemini model override reaches the
// generateContent URL, since that wire format names the model in the path
func TestNewGeminiModelInEndpoint(t *testing.T) {
	t.Setenv("SERPSCOPE_TEST_KEY", "g-key")

	p := &types.Provider{
		ID: "p1", Name: "gemini", Kind: types.KindGemini,
		Model: "gemini-1.5-flash", APIKeyEnv: "SERPSCOPE_TEST_KEY",
	}
	client, err := New(p, time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	gc, ok := client.(*GeminiClient)
	if !ok {
		t.Fatalf("Expected a GeminiClient, got %T", client)
	}
	if !strings.Contains(gc.endpoint, "gemini-1.5-flash:generateContent") {
		t.Errorf("Model override missing from endpoint: %q", gc.endpoint)
	}

	// No model falls back to the default model's URL
	p.Model = ""
	client, err = New(p, time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if gc := client.(*GeminiClient); !strings.Contains(gc.endpoint, "gemini-pro:generateContent") {
		t.Errorf("Expected the default model in the endpoint, got %q", gc.endpoint)
	}

	// An explicit endpoint wins over the derived one
	p.Endpoint = "https://example.com/custom:generateContent"
	client, err = New(p, time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if gc := client.(*GeminiClient); gc.endpoint != "https://example.com/custom:generateContent" {
		t.Errorf("Explicit endpoint not honored: %q", gc.endpoint)
	}
}

func TestPromptsEmbedInputs(t *testing.T) {
	if p := SerpPrompt("best crm software"); !strings.Contains(p, "best crm software") {
		t.Error("SerpPrompt should embed the word")
	}
	if p := ExtractionPrompt("some captured text"); !strings.Contains(p, "some captured text") {
		t.Error("ExtractionPrompt should embed the capture text")
	}

	p := MentionPrompt("results here", "Acme", []string{"Globex", "Initech"})
	for _, want := range []string{"results here", "Acme", "Globex, Initech"} {
		if !strings.Contains(p, want) {
			t.Errorf("MentionPrompt missing %q", want)
		}
	}
	if p := MentionPrompt("text", "Acme", nil); !strings.Contains(p, "(none)") {
		t.Error("MentionPrompt should mark an empty competitor list")
	}
}
