package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validTranslation = `ollama:
  model: llama3
  base_url: http://localhost:11434
  temperature: 0.15
performance:
  max_cache_size: 500
`

// resetFlags restores every flag variable to its default so that tests do
// not observe values set by earlier runs.
func resetFlags() {
	profileName = "translation"
	schemaFile = ""
	envPrefix = ""
	noEnv = false
	logLevel = "error"
	logFormat = "text"
	outputFmt = "text"

	validateFlags.fallback = false
	validateFlags.strict = false
	validateFlags.metricsFile = ""

	getFlags.kind = ""
	getFlags.skipValidation = false

	mergeFlags.output = ""
	mergeFlags.to = ""
	mergeFlags.validate = false

	initFlags.force = false

	historyFlags.db = "confstore-history.db"
	historyFlags.store = ""
	historyFlags.status = ""
	historyFlags.limit = 20
	historyFlags.allStore = false

	watchFlags.debounce = 50 * time.Millisecond
	watchFlags.resync = ""
	watchFlags.fallback = false
	watchFlags.metricsAddr = ""
	watchFlags.historyPath = ""
	watchFlags.historyRetention = 0
	watchFlags.pruneSchedule = "@hourly"
	watchFlags.maxAge = 0
	watchFlags.shutdownTimeout = time.Second
	watchFlags.otlpEndpoint = ""
	watchFlags.otlpInsecure = false
	watchFlags.traceSampler = "always"
	watchFlags.traceRatio = 1.0
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
