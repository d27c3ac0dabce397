package llm

import (
	"testing"
)

type testVerdict struct {
	BrandMentioned bool   `json:"brand_mentioned"`
	Competitor     string `json:"mentioned_competitor"`
	Confidence     int    `json:"confidence"`
}

func TestDecodeLooseDirect(t *testing.T) {
	var v testVerdict
	err := DecodeLoose(`{"brand_mentioned": true, "confidence": 85}`, &v)
	if err != nil {
		t.Fatalf("DecodeLoose failed: %v", err)
	}
	if !v.BrandMentioned || v.Confidence != 85 {
		t.Errorf("Unexpected verdict: %+v", v)
	}
}

func TestDecodeLooseCodeFence(t *testing.T) {
	input := "```json\n{\"brand_mentioned\": true, \"confidence\": 70}\n```"
	var v testVerdict
	if err := DecodeLoose(input, &v); err != nil {
		t.Fatalf("DecodeLoose failed on fenced JSON: %v", err)
	}
	if !v.BrandMentioned || v.Confidence != 70 {
		t.Errorf("Unexpected verdict: %+v", v)
	}
}

func TestDecodeLooseTrailingComma(t *testing.T) {
	var v testVerdict
	if err := DecodeLoose(`{"brand_mentioned": true, "confidence": 60,}`, &v); err != nil {
		t.Fatalf("DecodeLoose failed on trailing comma: %v", err)
	}
	if v.Confidence != 60 {
		t.Errorf("Unexpected verdict: %+v", v)
	}
}

func TestDecodeLooseMixedProse(t *testing.T) {
	input := `Here is my analysis of the results:
{"brand_mentioned": false, "mentioned_competitor": "Globex", "confidence": 40}
Hope this helps!`
	var v testVerdict
	if err := DecodeLoose(input, &v); err != nil {
		t.Fatalf("DecodeLoose failed on prose-wrapped JSON: %v", err)
	}
	if v.Competitor != "Globex" || v.Confidence != 40 {
		t.Errorf("Unexpected verdict: %+v", v)
	}
}

func TestDecodeLooseFailures(t *testing.T) {
	var v testVerdict
	if err := DecodeLoose("", &v); err == nil {
		t.Error("Expected an error for empty input")
	}
	if err := DecodeLoose("no json anywhere in this answer", &v); err == nil {
		t.Error("Expected an error when every strategy fails")
	}
}
