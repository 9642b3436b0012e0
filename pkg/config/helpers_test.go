package config

import (
	"errors"
	"testing"
)

// testSchema mirrors the shape of the built-in profiles without importing them.
func testSchema() *Schema {
	return &Schema{
		Name: "test",
		Fields: []Field{
			{Path: "ollama.model", Kind: KindString, Required: true},
			{Path: "ollama.temperature", Kind: KindFloat, Required: true, Min: Bound(0), Max: Bound(2)},
			{Path: "ollama.max_retries", Kind: KindInt, Default: 3, Min: Bound(0), Max: Bound(10)},
			{Path: "ollama.enabled", Kind: KindBool, Default: true},
			{Path: "performance.max_cache_size", Kind: KindInt, Default: 1000, Min: Bound(0)},
			{Path: "response_formatting.preferred_format", Kind: KindString, Default: "plain",
				Enum: []string{"plain", "markdown", "structured"}},
			{Path: "response_formatting.emoji_mapping", Kind: KindStringMap,
				Default: map[string]any{"grammar": "📚"}},
			{Path: "quality_control.focus_areas", Kind: KindStringList,
				Default: []any{"grammar"}, Enum: []string{"grammar", "vocabulary"}},
		},
	}
}

func mustLoadYAML(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := LoadBytes([]byte(src), "test.yaml", FormatYAML)
	if err != nil {
		t.Fatalf("failed to load test document: %v", err)
	}
	return doc
}

func validationErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return verr.Errors
}
