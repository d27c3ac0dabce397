package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Pre-compiled patterns for JSON recovery. Models wrap JSON in code fences,
// leave trailing commas, or prepend prose often enough that a strict decode
// alone loses good verdicts.
var (
	codeFenceRegex     = regexp.MustCompile("(?s)`{3}(?:json)?\\s*\n?([\\s\\S]*?)\n?`{3}")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	objectRegex        = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// DecodeLoose parses model-produced JSON into v with fallback strategies:
// direct decode, code-fence removal, trailing-comma cleanup, and object
// extraction from mixed prose. It never panics; callers degrade to a zero
// verdict when it fails.
func DecodeLoose(text string, v any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	slog.Debug("direct JSON decode failed, trying recovery strategies",
		"textPreview", preview(trimmed, 100))

	// Strategy 2: strip markdown code fences
	unfenced := strings.TrimSpace(codeFenceRegex.ReplaceAllString(trimmed, "$1"))
	if unfenced != trimmed {
		if err := json.Unmarshal([]byte(unfenced), v); err == nil {
			return nil
		}
	}

	// Strategy 3: remove trailing commas before closing braces/brackets
	cleaned := trailingCommaRegex.ReplaceAllString(unfenced, "$1")
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	// Strategy 4: extract the first object-shaped span from mixed content
	if match := objectRegex.FindString(cleaned); match != "" {
		if err := json.Unmarshal([]byte(match), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("all JSON recovery strategies failed")
}

// preview truncates a string for log output
func preview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
