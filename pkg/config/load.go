package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a configuration source.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat parses a format name. The empty string selects YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be 'yaml', 'json' or 'toml'", s)
	}
}

// DetectFormat infers the format from a file extension, defaulting to YAML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Load reads the whole of r and parses it as format. name is used in error
// messages and recorded as the document source.
func Load(r io.Reader, name string, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %q: %w", name, err)
	}
	return LoadBytes(data, name, format)
}

// LoadBytes parses data as format. Malformed input yields a *ParseError.
// An empty source yields an empty document; a source whose top level is not
// a mapping is malformed.
func LoadBytes(data []byte, name string, format Format) (*Document, error) {
	var (
		tree map[string]any
		err  error
	)
	switch format {
	case FormatJSON:
		tree, err = parseJSON(data, name)
	case FormatTOML:
		tree, err = parseTOML(data, name)
	default:
		tree, err = parseYAML(data, name)
	}
	if err != nil {
		return nil, err
	}
	return NewDocument(tree, name), nil
}

// LoadFile loads the file at path, inferring the format from its extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return LoadBytes(data, path, DetectFormat(path))
}

func parseYAML(data []byte, name string) (map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, newParseError(name, err)
	}
	if node.Kind == 0 || len(node.Content) == 0 {
		return map[string]any{}, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return map[string]any{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{
			Source: name,
			Line:   root.Line,
			Column: root.Column,
			Err:    errors.New("top level of a configuration document must be a mapping"),
		}
	}

	var tree map[string]any
	if err := root.Decode(&tree); err != nil {
		return nil, newParseError(name, err)
	}
	return tree, nil
}

func parseJSON(data []byte, name string) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, jsonParseError(data, name, err)
	}
	if dec.More() {
		offset := dec.InputOffset()
		offset += int64(len(data[offset:]) - len(bytes.TrimLeft(data[offset:], " \t\r\n")))
		perr := &ParseError{Source: name, Err: errors.New("unexpected data after top-level value")}
		perr.Line, perr.Column = lineColumn(data, offset+1)
		return nil, perr
	}

	tree, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			return map[string]any{}, nil
		}
		return nil, &ParseError{Source: name, Line: 1, Column: 1, Err: errors.New("top level of a configuration document must be an object")}
	}
	return tree, nil
}

// jsonParseError converts the byte offset of a JSON syntax error into a line and column.
func jsonParseError(data []byte, name string, err error) *ParseError {
	perr := &ParseError{Source: name, Err: err}

	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	case errors.Is(err, io.ErrUnexpectedEOF):
		offset = int64(len(data))
	}
	if offset < 0 {
		return perr
	}
	perr.Line, perr.Column = lineColumn(data, offset)
	return perr
}

// lineColumn converts the number of bytes consumed up to and including the
// offending byte into a 1-based line and column.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 1 {
		return 1, 1
	}
	prefix := data[:offset-1]
	line := bytes.Count(prefix, []byte("\n")) + 1
	column := len(prefix) - bytes.LastIndexByte(prefix, '\n')
	return line, column
}

func parseTOML(data []byte, name string) (map[string]any, error) {
	tree := make(map[string]any)
	if _, err := toml.Decode(string(data), &tree); err != nil {
		return nil, newParseError(name, err)
	}
	return tree, nil
}

// Layer is one source in a layered load.
type Layer struct {
	// Path is the file to load.
	Path string

	// Optional layers that do not exist are skipped.
	Optional bool
}

// LoadOptions configures LoadLayered.
type LoadOptions struct {
	// Layers are merged in order; later layers override earlier ones.
	Layers []Layer

	// EnvPrefix enables environment overrides (PREFIX_SECTION_FIELD) when set.
	EnvPrefix string

	// LookupEnv resolves environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Fallback replaces violated fields with their defaults (see Repair)
	// instead of failing. Violations without a default still fail.
	Fallback bool
}

// LoadLayered loads, merges, overrides, and validates configuration against schema.
//
// The loading sequence is:
//  1. Load each layer in order (missing optional layers are skipped)
//  2. Merge the layers
//  3. Apply environment variable overrides
//  4. Validate, applying defaults
func LoadLayered(schema *Schema, opts LoadOptions) (*Document, error) {
	docs := make([]*Document, 0, len(opts.Layers))
	var sources []string
	for _, layer := range opts.Layers {
		doc, err := LoadFile(layer.Path)
		if err != nil {
			if layer.Optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
		sources = append(sources, layer.Path)
	}

	merged := MergeAll(docs...)
	merged.source = strings.Join(sources, ",")

	if opts.EnvPrefix != "" {
		lookup := opts.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		merged = ApplyEnv(merged, schema, opts.EnvPrefix, lookup)
	}

	if opts.Fallback {
		doc, errs := Repair(merged, schema)
		if len(errs) > 0 {
			return nil, &ValidationError{Errors: errs}
		}
		return doc, nil
	}
	return Validate(merged, schema)
}

// Loader produces a validated document. Store calls it on every reload.
type Loader interface {
	Load(ctx context.Context) (*Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*Document, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*Document, error) {
	return f(ctx)
}

// LayeredLoader returns a Loader that runs LoadLayered with schema and opts.
func LayeredLoader(schema *Schema, opts LoadOptions) Loader {
	return LoaderFunc(func(ctx context.Context) (*Document, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return LoadLayered(schema, opts)
	})
}
