package config

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// EnvVarName returns the environment variable that overrides path:
// the prefix, an underscore, and the path upper-cased with dots replaced
// by underscores (e.g., TUTOR_OLLAMA_MAX_RETRIES for "ollama.max_retries").
func EnvVarName(prefix, path string) string {
	name := strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(strings.TrimSuffix(prefix, "_")) + "_" + name
}

// ApplyEnv returns a copy of doc with environment overrides applied to the
// scalar fields declared by schema. Values are converted with ParseText;
// a value that does not parse is kept as a string so that validation
// reports it as a wrong_type violation. Maps are not overridable from the
// environment.
func ApplyEnv(doc *Document, schema *Schema, prefix string, lookup func(string) (string, bool)) *Document {
	root := cloneMap(doc.root)

	for _, field := range schema.Fields {
		raw, ok := lookup(EnvVarName(prefix, field.Path))
		if !ok {
			continue
		}
		value, ok := ParseText(field, raw)
		if !ok {
			continue
		}
		setPath(root, splitPath(field.Path), value)
	}

	return &Document{root: root, source: doc.source}
}

var (
	// decimalInt accepts base-10 integers without leading zeros or radix prefixes.
	decimalInt = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)$`)

	// decimalFloat accepts base-10 numbers with optional fraction and exponent.
	decimalFloat = regexp.MustCompile(`^[+-]?((0|[1-9][0-9]*)(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// ParseText converts the text form of a value to the kind field declares.
// Numbers must be written in decimal, and an int field rejects a fractional
// value even when the fraction is zero ("3.0"), matching what file sources
// accept. String lists are comma-separated. Text that does not parse is
// returned unchanged. ok is false for map kinds, which have no text form.
func ParseText(field Field, raw string) (value any, ok bool) {
	var err error
	switch field.Kind {
	case KindBool:
		value, err = cast.ToBoolE(strings.TrimSpace(raw))
	case KindInt:
		text := strings.TrimSpace(raw)
		if !decimalInt.MatchString(text) {
			return raw, true
		}
		value, err = cast.ToInt64E(text)
	case KindFloat:
		text := strings.TrimSpace(raw)
		if !decimalFloat.MatchString(text) {
			return raw, true
		}
		value, err = cast.ToFloat64E(text)
	case KindString:
		value = raw
	case KindStringList:
		items := make([]any, 0)
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		value = items
	default:
		return nil, false
	}
	if err != nil {
		return raw, true
	}
	return value, true
}
