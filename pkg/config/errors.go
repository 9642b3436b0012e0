package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Sentinel errors matched by the accessor error types through errors.Is.
var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrTypeMismatch = errors.New("type mismatch")
)

// ParseError reports a source that is not well-formed structured data.
type ParseError struct {
	// Source names the document (usually the file path).
	Source string

	// Line and Column locate the problem when the parser reports them (1-based, 0 if unknown).
	Line   int
	Column int

	Err error
}

// Error returns the error message with the source location when known.
func (e *ParseError) Error() string {
	loc := e.Source
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
		if e.Column > 0 {
			loc = fmt.Sprintf("%s:%d", loc, e.Column)
		}
	}
	return fmt.Sprintf("failed to parse %s: %v", loc, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	lineRe   = regexp.MustCompile(`line (\d+)`)
	columnRe = regexp.MustCompile(`column (\d+)`)
)

// newParseError wraps a decoder error, extracting the location from it.
func newParseError(source string, err error) *ParseError {
	perr := &ParseError{Source: source, Err: err}

	var tomlErr toml.ParseError
	if errors.As(err, &tomlErr) {
		perr.Line = tomlErr.Position.Line
		return perr
	}

	msg := err.Error()
	if m := lineRe.FindStringSubmatch(msg); m != nil {
		perr.Line, _ = strconv.Atoi(m[1])
	}
	if m := columnRe.FindStringSubmatch(msg); m != nil {
		perr.Column, _ = strconv.Atoi(m[1])
	}
	return perr
}

// ViolationCode classifies a FieldError.
type ViolationCode string

const (
	CodeMissingRequired  ViolationCode = "missing_required"
	CodeWrongType        ViolationCode = "wrong_type"
	CodeOutOfRange       ViolationCode = "out_of_range"
	CodeUnknownEnumValue ViolationCode = "unknown_enum_value"

	// CodeInvalidSchema is reported by Schema.Check, never by Validate.
	CodeInvalidSchema ViolationCode = "invalid_schema"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "ollama.temperature").
	Field string `json:"field"`

	// Code classifies the violation.
	Code ViolationCode `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Fields returns the paths of all offending fields in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fields
}

// KeyNotFoundError is returned by accessors when a path does not resolve.
type KeyNotFoundError struct {
	Path string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("configuration key %q not found", e.Path)
}

// Is reports whether target is ErrKeyNotFound.
func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// TypeMismatchError is returned by accessors when the resolved value has another kind.
type TypeMismatchError struct {
	Path     string
	Expected Kind
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("configuration key %q: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
