package config

import (
	"reflect"
	"testing"
)

func TestEnvVarName(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{"TUTOR", "ollama.max_retries", "TUTOR_OLLAMA_MAX_RETRIES"},
		{"tutor_", "ollama.model", "TUTOR_OLLAMA_MODEL"},
		{"", "threading.thread_timeout", "THREADING_THREAD_TIMEOUT"},
	}
	for _, tt := range tests {
		if got := EnvVarName(tt.prefix, tt.path); got != tt.want {
			t.Errorf("EnvVarName(%q, %q) = %q, want %q", tt.prefix, tt.path, got, tt.want)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TUTOR_OLLAMA_MODEL":                       "mistral:7b",
		"TUTOR_OLLAMA_TEMPERATURE":                 " 0.5 ",
		"TUTOR_OLLAMA_ENABLED":                     "false",
		"TUTOR_OLLAMA_MAX_RETRIES":                 "many",
		"TUTOR_QUALITY_CONTROL_FOCUS_AREAS":        "grammar,,vocabulary",
		"TUTOR_RESPONSE_FORMATTING_EMOJI_MAPPING": "ignored",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	base := NewDocument(map[string]any{"ollama": map[string]any{"model": "llama3.1:8b"}}, "base")
	doc := ApplyEnv(base, testSchema(), "TUTOR", lookup)

	if s, _ := doc.String("ollama.model"); s != "mistral:7b" {
		t.Errorf("ollama.model = %q", s)
	}
	if f, _ := doc.Float("ollama.temperature"); f != 0.5 {
		t.Errorf("ollama.temperature = %v", f)
	}
	if b, err := doc.Bool("ollama.enabled"); err != nil || b {
		t.Errorf("ollama.enabled = %v, %v; want false", b, err)
	}
	if l, _ := doc.StringList("quality_control.focus_areas"); !reflect.DeepEqual(l, []string{"grammar", "vocabulary"}) {
		t.Errorf("quality_control.focus_areas = %v", l)
	}
	if doc.Has("response_formatting.emoji_mapping") {
		t.Error("map fields must not be overridden from the environment")
	}
	if doc.Source() != "base" {
		t.Errorf("Source() = %q", doc.Source())
	}

	// A value that cannot be coerced stays a string and fails validation.
	_, err := Validate(doc, testSchema())
	errs := validationErrors(t, err)
	if len(errs) != 1 || errs[0].Field != "ollama.max_retries" || errs[0].Code != CodeWrongType {
		t.Errorf("expected wrong_type for ollama.max_retries, got %v", errs)
	}

	if s, _ := base.String("ollama.model"); s != "llama3.1:8b" {
		t.Errorf("base document modified: %q", s)
	}
}

func TestApplyEnv_NumberText(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		raw   string
		want  any
		valid bool
	}{
		{"decimal int", "ollama.max_retries", "7", int64(7), true},
		{"signed int", "ollama.max_retries", " +4 ", int64(4), true},
		{"zero", "ollama.max_retries", "0", int64(0), true},
		{"leading zero", "ollama.max_retries", "010", "010", false},
		{"hex", "ollama.max_retries", "0x10", "0x10", false},
		{"integral fraction", "ollama.max_retries", "3.0", "3.0", false},
		{"exponent int", "ollama.max_retries", "1e1", "1e1", false},
		{"decimal float", "ollama.temperature", "0.25", 0.25, true},
		{"float from int text", "ollama.temperature", "1", 1.0, true},
		{"bare fraction", "ollama.temperature", ".5", 0.5, true},
		{"hex float", "ollama.temperature", "0x1p-1", "0x1p-1", false},
		{"infinity", "ollama.temperature", "Inf", "Inf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{EnvVarName("T", tt.path): tt.raw}
			lookup := func(key string) (string, bool) {
				v, ok := env[key]
				return v, ok
			}
			base := NewDocument(map[string]any{"ollama": map[string]any{
				"model":       "llama3",
				"temperature": 0.3,
			}}, "")

			doc := ApplyEnv(base, testSchema(), "T", lookup)
			if got, _ := doc.Lookup(tt.path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s = %#v, want %#v", tt.path, got, tt.want)
			}

			_, err := Validate(doc, testSchema())
			if tt.valid {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			errs := validationErrors(t, err)
			if len(errs) != 1 || errs[0].Field != tt.path || errs[0].Code != CodeWrongType {
				t.Errorf("expected wrong_type for %s, got %v", tt.path, errs)
			}
		})
	}
}

func TestParseText_Map(t *testing.T) {
	if _, ok := ParseText(Field{Path: "a.b", Kind: KindStringMap}, "x"); ok {
		t.Error("string maps have no text form")
	}
	if _, ok := ParseText(Field{Path: "a", Kind: KindMap}, "x"); ok {
		t.Error("maps have no text form")
	}
}
