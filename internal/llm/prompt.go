package llm

import (
	"fmt"
	"strings"
)

// serpPrompt asks the model to behave like a search engine for one query.
// The response is stored verbatim as the capture content.
const serpPrompt = `You are a search engine. For the query %q return the top 10
search results in the format:
1. Title - short description
2. Title - short description
...

Include real companies, brands, and commercial offerings related to the query.
Answer with the result list only, no extra commentary.`

// extractionPrompt asks for a bare comma-separated list so the parser stays
// simple and deterministic. Any deviation from the format degrades to fewer
// (or zero) entities, never to an error.
const extractionPrompt = `Find every company, brand, product, and commercial
name mentioned in the following text. Return only the names as a single
comma-separated list, with no numbering, no descriptions, and no other text.
If none are found, return an empty string.

Text:
%s`

// mentionPrompt asks for a strict-JSON brand/competitor verdict over one
// capture's text.
const mentionPrompt = `Analyze the following search results and determine:
1. Whether the brand %q is mentioned (true/false)
2. Whether any of these competitors is mentioned: %s (true/false)
3. If a competitor is mentioned, which one
4. The position (1-10) where the brand appears, if it appears
5. The position (1-10) where the competitor appears, if it appears

Search results:
%s

Respond with ONLY a JSON object in exactly this shape:
{
  "brand_mentioned": true,
  "competitor_mentioned": false,
  "mentioned_competitor": null,
  "brand_position": null,
  "competitor_position": null,
  "confidence": 100
}`

// SerpPrompt renders the capture prompt for one tracked word
func SerpPrompt(word string) string {
	return fmt.Sprintf(serpPrompt, word)
}

// ExtractionPrompt renders the entity-extraction prompt for captured text
func ExtractionPrompt(text string) string {
	return fmt.Sprintf(extractionPrompt, text)
}

// MentionPrompt renders the brand-mention analysis prompt
func MentionPrompt(text, brand string, competitors []string) string {
	list := strings.Join(competitors, ", ")
	if list == "" {
		list = "(none)"
	}
	return fmt.Sprintf(mentionPrompt, brand, list, text)
}
