package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
)

func TestSetCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", validTranslation)

	out, err := runCommand(t, "set", "language_learning.user_level", "advanced", path)
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !strings.Contains(out, "language_learning.user_level = advanced") {
		t.Errorf("output = %q", out)
	}

	doc, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("failed to reload file: %v", err)
	}
	if s, _ := doc.String("language_learning.user_level"); s != "advanced" {
		t.Errorf("language_learning.user_level = %q, want advanced", s)
	}
	if f, _ := doc.Float("ollama.temperature"); f != 0.15 {
		t.Errorf("ollama.temperature = %v, existing values must be kept", f)
	}
	if doc.Has("performance.cache_duration_hours") {
		t.Error("defaults must not be written into the file")
	}
}

func TestSetCommand_TypedValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"threading": {"max_worker_threads": 4}}`)

	if _, err := runCommand(t, "set", "--profile", "gui", "threading.max_worker_threads", "8", path); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	doc, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("failed to reload file: %v", err)
	}
	if n, err := doc.Int("threading.max_worker_threads"); err != nil || n != 8 {
		t.Errorf("threading.max_worker_threads = %d, %v; want 8", n, err)
	}
}

func TestSetCommand_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"enum value", []string{"language_learning.user_level", "expert"}, cli.ExitInvalid},
		{"out of range", []string{"ollama.temperature", "3"}, cli.ExitInvalid},
		{"fractional int", []string{"ollama.max_retries", "3.0"}, cli.ExitInvalid},
		{"undeclared path", []string{"language_learning.user_levl", "advanced"}, cli.ExitLookup},
		{"lookup table", []string{"skyrim_context.common_terms", "x"}, cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", validTranslation)

			args := append([]string{"set"}, tt.args...)
			_, err := runCommand(t, append(args, path)...)
			if got := cli.ExitCode(err); got != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (err: %v)", got, tt.wantCode, err)
			}

			data, _ := os.ReadFile(path)
			if string(data) != validTranslation {
				t.Errorf("file changed on rejected set:\n%s", data)
			}
		})
	}
}

func TestSetCommand_Suggestion(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", validTranslation)

	_, err := runCommand(t, "set", "language_learning.user_levl", "advanced", path)
	if !errors.Is(err, config.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "language_learning.user_level"`) {
		t.Errorf("error = %v", err)
	}
}
