package cli

import (
	"bytes"
	"strings"
	"testing"
)

type report struct {
	Valid bool   `json:"valid" yaml:"valid"`
	File  string `json:"file" yaml:"file"`
}

func (r report) Text() string {
	if r.Valid {
		return r.File + ": ok"
	}
	return r.File + ": invalid"
}

type table struct{}

func (table) Header() []string { return []string{"STORE", "STATUS"} }
func (table) Rows() [][]string {
	return [][]string{{"gui", "applied"}, {"translation", "rejected"}}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		data   any
		want   []string
	}{
		{"text texter", FormatText, report{Valid: true, File: "gui.yaml"}, []string{"gui.yaml: ok\n"}},
		{"text tabular", FormatText, table{}, []string{"STORE", "translation  rejected"}},
		{"text fallback", FormatText, 42, []string{"42\n"}},
		{"json", FormatJSON, report{File: "a&b.yaml"}, []string{`"valid": false`, `"file": "a&b.yaml"`}},
		{"yaml", FormatYAML, report{Valid: true, File: "gui.yaml"}, []string{"valid: true", "file: gui.yaml"}},
		{"csv", FormatCSV, table{}, []string{"STORE,STATUS\ngui,applied\ntranslation,rejected\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewFormatter(tt.format).FormatTo(&buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q does not contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestCSVFormatter_RequiresTabular(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatCSV).FormatTo(&buf, report{}); err == nil {
		t.Error("CSV formatting of a non-tabular value should fail")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]OutputFormat{
		"":     FormatText,
		"TEXT": FormatText,
		"json": FormatJSON,
		"yml":  FormatYAML,
		"csv":  FormatCSV,
	}
	for in, want := range tests {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("ParseOutputFormat(xml) should fail")
	}
}
