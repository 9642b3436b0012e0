package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the declared type of a configuration field.
type Kind int

const (
	// KindInvalid is the zero Kind and never matches a value.
	KindInvalid Kind = iota
	// KindBool is a boolean leaf.
	KindBool
	// KindInt is an integer leaf, stored as int64.
	KindInt
	// KindFloat is a floating point leaf, stored as float64. Integer values are accepted.
	KindFloat
	// KindString is a string leaf.
	KindString
	// KindMap is a nested mapping with arbitrary values.
	KindMap
	// KindStringMap is a lookup table with string keys and string values only.
	KindStringMap
	// KindStringList is a list of strings.
	KindStringList
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindString:     "string",
	KindMap:        "map",
	KindStringMap:  "string_map",
	KindStringList: "string_list",
}

// String returns the schema name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses a kind name as written in schema files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "number":
		return KindFloat, nil
	case "string":
		return KindString, nil
	case "map", "mapping", "object":
		return KindMap, nil
	case "string_map":
		return KindStringMap, nil
	case "string_list", "list":
		return KindStringList, nil
	default:
		return KindInvalid, fmt.Errorf("unknown kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) numeric() bool {
	return k == KindInt || k == KindFloat
}

// Field declares one configuration field of a schema.
type Field struct {
	// Path is the dotted path of the field (e.g., "ollama.temperature").
	Path string `yaml:"path"`

	// Kind is the declared value type.
	Kind Kind `yaml:"kind"`

	// Required fields must be present in the source. Optional fields receive
	// Default when absent.
	Required bool `yaml:"required"`

	// Default is the value applied to an absent optional field. A nil Default
	// leaves the field absent.
	Default any `yaml:"default"`

	// Min and Max bound numeric fields. Bounds are inclusive unless the
	// matching Exclusive flag is set.
	Min          *float64 `yaml:"min"`
	Max          *float64 `yaml:"max"`
	ExclusiveMin bool     `yaml:"exclusive_min"`
	ExclusiveMax bool     `yaml:"exclusive_max"`

	// Enum is the closed set of legal values for string and string_list fields.
	Enum []string `yaml:"enum"`

	// Description is shown by the profiles command.
	Description string `yaml:"description"`
}

// Bound returns a pointer to v for use as a Field bound.
func Bound(v float64) *float64 {
	return &v
}

// RangeString renders the numeric constraint of the field, or "" when unbounded.
func (f Field) RangeString() string {
	if f.Min == nil && f.Max == nil {
		return ""
	}
	lo, hi := "(-inf", "+inf)"
	if f.Min != nil {
		if f.ExclusiveMin {
			lo = "(" + formatBound(*f.Min)
		} else {
			lo = "[" + formatBound(*f.Min)
		}
	}
	if f.Max != nil {
		if f.ExclusiveMax {
			hi = formatBound(*f.Max) + ")"
		} else {
			hi = formatBound(*f.Max) + "]"
		}
	}
	return lo + ", " + hi
}

func formatBound(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// Schema is a host-declared set of fields for one configuration profile.
type Schema struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Fields      []Field `yaml:"fields"`
}

// Field returns the declared field at path.
func (s *Schema) Field(path string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Path == path {
			return f, true
		}
	}
	return Field{}, false
}

// FieldFor returns the declared field that owns path: the field itself, or
// the map or list field that path names an entry ("table.key") or element
// ("list[2]") of. Paths above declared fields have no owner.
func (s *Schema) FieldFor(path string) (Field, bool) {
	if i := strings.IndexByte(path, '['); i >= 0 {
		path = path[:i]
	}
	for path != "" {
		if f, ok := s.Field(path); ok {
			return f, true
		}
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			break
		}
		path = path[:i]
	}
	return Field{}, false
}

// Sections returns the distinct top-level section names in declaration order.
func (s *Schema) Sections() []string {
	seen := make(map[string]bool)
	var sections []string
	for _, f := range s.Fields {
		head, _, _ := strings.Cut(f.Path, ".")
		if !seen[head] {
			seen[head] = true
			sections = append(sections, head)
		}
	}
	return sections
}

// Defaults returns a document holding every declared default.
func (s *Schema) Defaults() *Document {
	root := make(map[string]any)
	for _, f := range s.Fields {
		if f.Default == nil {
			continue
		}
		setPath(root, splitPath(f.Path), normalize(f.Default))
	}
	return &Document{root: root, source: s.Name + " defaults"}
}

// Check reports inconsistencies in the schema declaration itself. All
// problems are collected into a single ValidationError.
func (s *Schema) Check() error {
	var errs []FieldError
	seen := make(map[string]bool)

	for _, f := range s.Fields {
		if f.Path == "" || strings.HasPrefix(f.Path, ".") || strings.HasSuffix(f.Path, ".") || strings.Contains(f.Path, "..") {
			errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: "field path is malformed"})
			continue
		}
		if seen[f.Path] {
			errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: "field declared more than once"})
		}
		seen[f.Path] = true

		if f.Kind == KindInvalid {
			errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: "field kind is not set"})
			continue
		}
		if (f.Min != nil || f.Max != nil) && !f.Kind.numeric() {
			errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: fmt.Sprintf("range declared on %s field", f.Kind)})
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: "min is greater than max"})
		}
		if len(f.Enum) > 0 && f.Kind != KindString && f.Kind != KindStringList {
			errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: fmt.Sprintf("enum declared on %s field", f.Kind)})
		}
		if f.Required && f.Default != nil {
			errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: "required field declares a default"})
		}
		if f.Default != nil {
			if _, ferrs := checkValue(f, f.Path, normalize(f.Default)); len(ferrs) > 0 {
				errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: "default violates field constraints: " + ferrs[0].Message})
			}
		}
	}

	for _, f := range s.Fields {
		parts := splitPath(f.Path)
		for i := 1; i < len(parts); i++ {
			prefix := strings.Join(parts[:i], ".")
			if parent, ok := s.Field(prefix); ok && parent.Kind != KindMap {
				errs = append(errs, FieldError{Field: f.Path, Code: CodeInvalidSchema, Message: fmt.Sprintf("parent %q is declared as %s", prefix, parent.Kind)})
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ParseSchema decodes a YAML schema declaration and checks it.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, newParseError("schema", err)
	}
	for i := range s.Fields {
		if s.Fields[i].Default != nil {
			s.Fields[i].Default = normalize(s.Fields[i].Default)
		}
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("invalid schema %q: %w", s.Name, err)
	}
	return &s, nil
}

// LoadSchemaFile reads a YAML schema declaration from path.
func LoadSchemaFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %q: %w", path, err)
	}
	s, err := ParseSchema(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Source = path
		}
		return nil, err
	}
	return s, nil
}
