package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
)

var getFlags struct {
	kind           string
	skipValidation bool
}

var getCmd = &cobra.Command{
	Use:   "get PATH FILE...",
	Short: "Read a typed value from configuration files",
	Long: `Load and validate configuration files, then print the value at a dotted
path. With --type the value must have that kind; a missing path or a value
of another kind exits with status 4 instead of falling back to a default.

Kinds: bool, int, float, string, map, string_map, string_list.

Examples:
  # Print the sampling temperature
  confstore get ollama.temperature --type float config.yaml

  # Print a lookup table as JSON
  confstore get skyrim_context.common_terms --type string_map config.yaml --format json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getFlags.kind, "type", "t", "", "expected kind of the value")
	getCmd.Flags().BoolVar(&getFlags.skipValidation, "skip-validation", false, "merge the files without checking them against the profile")
}

// lookupResult is the value printed by the get command.
type lookupResult struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Value any    `json:"value" yaml:"value"`
}

func (r *lookupResult) Text() string {
	switch r.Value.(type) {
	case map[string]any, map[string]string, []any, []string:
		data, err := yaml.Marshal(r.Value)
		if err != nil {
			return fmt.Sprint(r.Value)
		}
		return string(data)
	default:
		return fmt.Sprint(r.Value)
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	path, files := args[0], args[1:]

	var kind config.Kind
	if getFlags.kind != "" {
		k, err := config.ParseKind(getFlags.kind)
		if err != nil {
			return cli.NewConfigError("--type", err.Error())
		}
		kind = k
	}

	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	doc, err := loadForRead(files)
	if err != nil {
		return err
	}

	result := &lookupResult{Path: path}
	if getFlags.kind != "" {
		v, err := doc.Get(path, kind)
		if err != nil {
			return withPathSuggestion(err, path, doc)
		}
		result.Kind = kind.String()
		result.Value = v
	} else {
		v, ok := doc.Lookup(path)
		if !ok {
			return withPathSuggestion(&config.KeyNotFoundError{Path: path}, path, doc)
		}
		result.Value = v
	}

	return formatter.FormatTo(cmd.OutOrStdout(), result)
}

// loadForRead loads files for read-only commands, validating them unless
// --skip-validation is set.
func loadForRead(files []string) (*config.Document, error) {
	schema, prefix, err := resolveSchema()
	if err != nil {
		return nil, err
	}

	if !getFlags.skipValidation {
		return config.LoadLayered(schema, loadOptions(files, prefix, false))
	}

	docs := make([]*config.Document, 0, len(files))
	for _, f := range files {
		doc, err := config.LoadFile(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	merged := config.MergeAll(docs...)
	if prefix != "" {
		merged = config.ApplyEnv(merged, schema, prefix, os.LookupEnv)
	}
	return merged, nil
}

// withPathSuggestion adds the closest existing path to a lookup failure.
func withPathSuggestion(err error, path string, doc *config.Document) error {
	if !errors.Is(err, config.ErrKeyNotFound) {
		return err
	}
	flat := doc.Flatten()
	candidates := make([]string, 0, len(flat))
	for p := range flat {
		candidates = append(candidates, p)
	}
	if s := config.Suggest(path, candidates); s != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}
