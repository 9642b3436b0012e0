package profiles

import (
	"errors"
	"strings"
	"testing"

	"vidlearn-hq/confstore/pkg/config"
)

func TestBuiltinSchemasAreConsistent(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", name, err)
			}
			if p.Name() != name {
				t.Errorf("Name() = %q, want %q", p.Name(), name)
			}
			if err := p.Schema.Check(); err != nil {
				t.Errorf("Check() error: %v", err)
			}
			if _, err := config.Validate(p.Template(), p.Schema); err != nil {
				t.Errorf("template does not validate: %v", err)
			}
			for path := range p.Required {
				f, ok := p.Schema.Field(path)
				if !ok || !f.Required {
					t.Errorf("sample for %q does not match a required field", path)
				}
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("translaton")
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), `did you mean "translation"?`) {
		t.Errorf("error %q does not suggest translation", err)
	}
}

func TestTranslation_Temperature(t *testing.T) {
	doc, err := config.LoadBytes([]byte(`
ollama:
  model: llama3.1:8b
  base_url: http://localhost:11434
  temperature: 0.15
`), "tutor.yaml", config.FormatYAML)
	if err != nil {
		t.Fatalf("LoadBytes() error: %v", err)
	}

	valid, err := config.Validate(doc, Translation().Schema)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	temp, err := valid.Float("ollama.temperature")
	if err != nil || temp != 0.15 {
		t.Errorf("ollama.temperature = %v, %v; want 0.15", temp, err)
	}
	if n, _ := valid.Int("performance.max_cache_size"); n != DefaultMaxCacheSize {
		t.Errorf("performance.max_cache_size = %d, want %d", n, DefaultMaxCacheSize)
	}
	terms, err := valid.StringMap("skyrim_context.common_terms")
	if err != nil || terms["Jarl"] == "" {
		t.Errorf("skyrim_context.common_terms = %v, %v", terms, err)
	}
}

func TestTranslation_NegativeCacheSize(t *testing.T) {
	doc := Translation().Template()
	doc = config.Merge(doc, config.NewDocument(map[string]any{
		"performance": map[string]any{"max_cache_size": -5},
	}, "override"))

	_, err := config.Validate(doc, Translation().Schema)
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", verr.Errors)
	}
	if verr.Errors[0].Field != "performance.max_cache_size" || verr.Errors[0].Code != config.CodeOutOfRange {
		t.Errorf("error = %+v", verr.Errors[0])
	}
}

func TestTranslation_MissingModel(t *testing.T) {
	doc := config.NewDocument(map[string]any{
		"ollama": map[string]any{
			"base_url":    DefaultOllamaBaseURL,
			"temperature": 5,
		},
		"language_learning": map[string]any{"user_level": "expert"},
	}, "")

	_, err := config.Validate(doc, Translation().Schema)
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	codes := make(map[string]config.ViolationCode)
	for _, fe := range verr.Errors {
		codes[fe.Field] = fe.Code
	}
	if codes["ollama.model"] != config.CodeMissingRequired {
		t.Errorf("ollama.model: code = %q", codes["ollama.model"])
	}
	if codes["ollama.temperature"] != config.CodeOutOfRange {
		t.Errorf("ollama.temperature: code = %q", codes["ollama.temperature"])
	}
	if codes["language_learning.user_level"] != config.CodeUnknownEnumValue {
		t.Errorf("language_learning.user_level: code = %q", codes["language_learning.user_level"])
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %v", verr.Errors)
	}
}

func TestGUI_MergeWorkerThreads(t *testing.T) {
	base := config.NewDocument(map[string]any{
		"threading": map[string]any{"max_worker_threads": 4},
	}, "base.yaml")
	override := config.NewDocument(map[string]any{
		"threading": map[string]any{"max_worker_threads": 8},
	}, "local.yaml")

	valid, err := config.Validate(config.Merge(base, override), GUI().Schema)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if n, _ := valid.Int("threading.max_worker_threads"); n != 8 {
		t.Errorf("threading.max_worker_threads = %d, want 8", n)
	}
	if n, _ := valid.Int("threading.thread_timeout"); n != DefaultThreadTimeout {
		t.Errorf("threading.thread_timeout = %d, want %d", n, DefaultThreadTimeout)
	}
}

func TestGUI_SilenceThresholdExclusive(t *testing.T) {
	doc := config.NewDocument(map[string]any{
		"video_processing": map[string]any{"silence_threshold": 0},
	}, "")

	_, err := config.Validate(doc, GUI().Schema)
	var verr *config.ValidationError
	if !errors.As(err, &verr) || len(verr.Errors) != 1 || verr.Errors[0].Field != "video_processing.silence_threshold" {
		t.Errorf("expected out_of_range for silence_threshold, got %v", err)
	}
}

func TestGUI_EmptyDocumentValidates(t *testing.T) {
	valid, err := config.Validate(config.Empty(), GUI().Schema)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	formats, err := valid.StringList("video_processing.supported_formats")
	if err != nil || len(formats) == 0 {
		t.Errorf("supported_formats = %v, %v", formats, err)
	}
	if n, _ := valid.Int("memory_management.memory_threshold_mb"); n != DefaultMemoryThresholdMB {
		t.Errorf("memory_threshold_mb = %d, want %d", n, DefaultMemoryThresholdMB)
	}
}
