package config

import "testing"

func TestSuggest(t *testing.T) {
	candidates := []string{"translation", "gui"}

	tests := []struct {
		input string
		want  string
	}{
		{"translaton", "translation"},
		{"GUI", "gui"},
		{"gu", "gui"},
		{"completely-different", ""},
	}
	for _, tt := range tests {
		if got := Suggest(tt.input, candidates); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"Довакін", "Довакин", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
