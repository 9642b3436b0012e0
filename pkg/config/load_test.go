package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBytes_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"yaml", FormatYAML, "ollama:\n  model: m\n  temperature: 0.15\n  max_retries: 3\n"},
		{"json", FormatJSON, `{"ollama": {"model": "m", "temperature": 0.15, "max_retries": 3}}`},
		{"toml", FormatTOML, "[ollama]\nmodel = \"m\"\ntemperature = 0.15\nmax_retries = 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := LoadBytes([]byte(tt.data), "input", tt.format)
			if err != nil {
				t.Fatalf("LoadBytes() error: %v", err)
			}
			if s, _ := doc.String("ollama.model"); s != "m" {
				t.Errorf("ollama.model = %q", s)
			}
			if f, _ := doc.Float("ollama.temperature"); f != 0.15 {
				t.Errorf("ollama.temperature = %v", f)
			}
			if n, err := doc.Int("ollama.max_retries"); err != nil || n != 3 {
				t.Errorf("ollama.max_retries = %d, %v", n, err)
			}
		})
	}
}

func TestLoadBytes_Empty(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON, FormatTOML} {
		doc, err := LoadBytes([]byte("  \n"), "empty", format)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", format, err)
			continue
		}
		if doc.Len() != 0 {
			t.Errorf("%s: expected empty document, got %v", format, doc.Tree())
		}
	}

	doc, err := LoadBytes([]byte("~\n"), "null", FormatYAML)
	if err != nil || doc.Len() != 0 {
		t.Errorf("YAML null document: %v, %v", doc, err)
	}
}

func TestLoadBytes_ParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		data     string
		wantLine int // 0 accepts any reported line
	}{
		{"yaml bad indent", FormatYAML, "ollama:\n  model: m\n temperature: 0.3\n", 0},
		{"yaml unclosed quote", FormatYAML, "a: 1\nb: \"unterminated\n", 0},
		{"yaml top-level list", FormatYAML, "- a\n- b\n", 1},
		{"json syntax", FormatJSON, "{\n  \"a\": 1,\n  \"b\": \n}", 4},
		{"json trailing data", FormatJSON, "{\"a\": 1}\n{\"b\": 2}", 2},
		{"json top-level array", FormatJSON, "[1, 2]", 1},
		{"toml syntax", FormatTOML, "[ollama]\nmodel = \n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.data), "broken", tt.format)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if perr.Source != "broken" {
				t.Errorf("Source = %q, want broken", perr.Source)
			}
			if perr.Line == 0 || (tt.wantLine != 0 && perr.Line != tt.wantLine) {
				t.Errorf("Line = %d, want %d (%v)", perr.Line, tt.wantLine, err)
			}
			if !strings.Contains(err.Error(), "broken:") {
				t.Errorf("Error() = %q, want location prefix", err.Error())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tutor.json")
	if err := os.WriteFile(path, []byte(`{"ollama": {"model": "m"}}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if doc.Source() != path {
		t.Errorf("Source() = %q, want %q", doc.Source(), path)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: expected os.ErrNotExist, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"a.json":       FormatJSON,
		"a.JSON":       FormatJSON,
		"a.toml":       FormatTOML,
		"a.yaml":       FormatYAML,
		"a.yml":        FormatYAML,
		"no-extension": FormatYAML,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %s, want %s", path, got, want)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(YML) = %s, %v", f, err)
	}
}

func TestLoadLayered(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	local := filepath.Join(dir, "local.toml")

	writeFile(t, base, `
ollama:
  model: llama3.1:8b
  temperature: 0.3
  max_retries: 4
`)
	writeFile(t, local, `
[ollama]
max_retries = 6
`)

	env := map[string]string{
		"TUTOR_OLLAMA_TEMPERATURE":          "0.7",
		"TUTOR_QUALITY_CONTROL_FOCUS_AREAS": "grammar, vocabulary",
	}

	doc, err := LoadLayered(testSchema(), LoadOptions{
		Layers: []Layer{
			{Path: base},
			{Path: local},
			{Path: filepath.Join(dir, "missing.yaml"), Optional: true},
		},
		EnvPrefix: "TUTOR",
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	})
	if err != nil {
		t.Fatalf("LoadLayered() error: %v", err)
	}

	if n, _ := doc.Int("ollama.max_retries"); n != 6 {
		t.Errorf("ollama.max_retries = %d, want 6 from local layer", n)
	}
	if f, _ := doc.Float("ollama.temperature"); f != 0.7 {
		t.Errorf("ollama.temperature = %v, want 0.7 from environment", f)
	}
	if l, _ := doc.StringList("quality_control.focus_areas"); len(l) != 2 || l[1] != "vocabulary" {
		t.Errorf("quality_control.focus_areas = %v", l)
	}
	if n, _ := doc.Int("performance.max_cache_size"); n != 1000 {
		t.Errorf("performance.max_cache_size = %d, want default", n)
	}
	if doc.Source() != base+","+local {
		t.Errorf("Source() = %q", doc.Source())
	}
}

func TestLoadLayered_Failures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "ollama:\n  model: m\n  temperature: 9\n  max_retries: 50\n")

	_, err := LoadLayered(testSchema(), LoadOptions{Layers: []Layer{{Path: filepath.Join(dir, "missing.yaml")}}})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("required missing layer: got %v", err)
	}

	_, err = LoadLayered(testSchema(), LoadOptions{Layers: []Layer{{Path: bad}}})
	if errs := validationErrors(t, err); len(errs) != 2 {
		t.Errorf("expected 2 validation errors, got %v", errs)
	}

	// Fallback repairs max_retries but temperature has no default.
	_, err = LoadLayered(testSchema(), LoadOptions{Layers: []Layer{{Path: bad}}, Fallback: true})
	errs := validationErrors(t, err)
	if len(errs) != 1 || errs[0].Field != "ollama.temperature" {
		t.Errorf("fallback errors = %v, want only ollama.temperature", errs)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
