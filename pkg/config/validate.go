package config

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Validate checks doc against schema and returns a fully defaulted copy.
//
// Every declared field is checked for presence, kind, and range or enum
// membership. Absent optional fields receive their default. Keys that the
// schema does not declare are passed through unchanged. Validation never
// stops at the first problem: on failure the returned *ValidationError holds
// one FieldError per offending field.
func Validate(doc *Document, schema *Schema) (*Document, error) {
	root, errs := validateTree(doc, schema, false)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return &Document{root: root, source: doc.source}, nil
}

// Repair validates doc like Validate, but replaces every violated field that
// declares a default with that default. Violations that have no default to
// fall back to are returned; the document is returned either way.
func Repair(doc *Document, schema *Schema) (*Document, []FieldError) {
	root, errs := validateTree(doc, schema, true)
	return &Document{root: root, source: doc.source}, errs
}

func validateTree(doc *Document, schema *Schema, fallback bool) (map[string]any, []FieldError) {
	out := cloneMap(doc.root)
	var errs []FieldError
	badParents := make(map[string]bool)

	// In fallback mode a defaulted field replaces a non-mapping ancestor with
	// a mapping. Do that first so the siblings below it are checked against
	// the repaired tree rather than the scalar it replaced.
	if fallback {
		for _, field := range schema.Fields {
			parts := splitPath(field.Path)
			if _, ok := nonMapAncestor(out, parts); ok && field.Default != nil {
				setPath(out, parts, cloneValue(normalize(field.Default)))
			}
		}
	}

	for _, field := range schema.Fields {
		parts := splitPath(field.Path)

		// An ancestor that exists but is not a mapping hides every field below it.
		if parent, ok := nonMapAncestor(out, parts); ok {
			if !badParents[parent] {
				badParents[parent] = true
				v, _ := lookupPath(out, splitPath(parent))
				errs = append(errs, FieldError{
					Field:   parent,
					Code:    CodeWrongType,
					Message: fmt.Sprintf("expected a mapping, got %s", describe(v)),
				})
			}
			continue
		}

		value, present := lookupPath(out, parts)
		if !present {
			if field.Required {
				errs = append(errs, FieldError{
					Field:   field.Path,
					Code:    CodeMissingRequired,
					Message: "field is required",
				})
				continue
			}
			if field.Default != nil {
				setPath(out, parts, cloneValue(normalize(field.Default)))
			}
			continue
		}

		checked, ferrs := checkValue(field, field.Path, value)
		if len(ferrs) > 0 {
			if fallback && field.Default != nil {
				setPath(out, parts, cloneValue(normalize(field.Default)))
				continue
			}
			errs = append(errs, ferrs...)
			continue
		}
		setPath(out, parts, checked)
	}

	return out, errs
}

// nonMapAncestor returns the first existing ancestor of parts that is not a mapping.
func nonMapAncestor(root map[string]any, parts []string) (string, bool) {
	current := root
	for i := 0; i < len(parts)-1; i++ {
		next, ok := current[parts[i]]
		if !ok {
			return "", false
		}
		m, ok := next.(map[string]any)
		if !ok {
			return strings.Join(parts[:i+1], "."), true
		}
		current = m
	}
	return "", false
}

// checkValue verifies kind and constraints of a present value and returns
// the value in its canonical form.
func checkValue(field Field, path string, value any) (any, []FieldError) {
	wrongType := func() []FieldError {
		return []FieldError{{
			Field:   path,
			Code:    CodeWrongType,
			Message: fmt.Sprintf("expected %s, got %s", field.Kind, describe(value)),
		}}
	}

	switch field.Kind {
	case KindBool:
		if _, ok := value.(bool); !ok {
			return nil, wrongType()
		}
		return value, nil

	case KindInt:
		n, ok := value.(int64)
		if !ok {
			return nil, wrongType()
		}
		if ferr, bad := checkRange(field, path, float64(n)); bad {
			return nil, []FieldError{ferr}
		}
		return n, nil

	case KindFloat:
		var f float64
		switch n := value.(type) {
		case float64:
			f = n
		case int64:
			f = float64(n)
		default:
			return nil, wrongType()
		}
		if math.IsNaN(f) {
			return nil, []FieldError{{Field: path, Code: CodeOutOfRange, Message: "value is not a number"}}
		}
		if ferr, bad := checkRange(field, path, f); bad {
			return nil, []FieldError{ferr}
		}
		return f, nil

	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, wrongType()
		}
		if len(field.Enum) > 0 && !slices.Contains(field.Enum, s) {
			return nil, []FieldError{enumError(field, path, s)}
		}
		return s, nil

	case KindMap:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, wrongType()
		}
		return cloneMap(m), nil

	case KindStringMap:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, wrongType()
		}
		var errs []FieldError
		for _, k := range sortedKeys(m) {
			if _, ok := m[k].(string); !ok {
				errs = append(errs, FieldError{
					Field:   path + "." + k,
					Code:    CodeWrongType,
					Message: fmt.Sprintf("lookup table values must be strings, got %s", describe(m[k])),
				})
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return cloneMap(m), nil

	case KindStringList:
		l, ok := value.([]any)
		if !ok {
			return nil, wrongType()
		}
		var errs []FieldError
		for i, item := range l {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			s, ok := item.(string)
			if !ok {
				errs = append(errs, FieldError{
					Field:   itemPath,
					Code:    CodeWrongType,
					Message: fmt.Sprintf("expected string, got %s", describe(item)),
				})
				continue
			}
			if len(field.Enum) > 0 && !slices.Contains(field.Enum, s) {
				errs = append(errs, enumError(field, itemPath, s))
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return cloneValue(l), nil
	}

	return nil, []FieldError{{
		Field:   path,
		Code:    CodeWrongType,
		Message: fmt.Sprintf("field declares unsupported kind %s", field.Kind),
	}}
}

func checkRange(field Field, path string, v float64) (FieldError, bool) {
	low := field.Min != nil && (v < *field.Min || (field.ExclusiveMin && v == *field.Min))
	high := field.Max != nil && (v > *field.Max || (field.ExclusiveMax && v == *field.Max))
	if !low && !high {
		return FieldError{}, false
	}
	return FieldError{
		Field:   path,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("value %s is outside %s", formatBound(v), field.RangeString()),
	}, true
}

func enumError(field Field, path, value string) FieldError {
	msg := fmt.Sprintf("invalid value %q: must be one of %s", value, strings.Join(field.Enum, ", "))
	if s := Suggest(value, field.Enum); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return FieldError{
		Field:   path,
		Code:    CodeUnknownEnumValue,
		Message: msg,
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
