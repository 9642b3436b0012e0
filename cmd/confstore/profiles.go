package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
	"vidlearn-hq/confstore/pkg/config/profiles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles [NAME]",
	Short: "List profiles or describe the fields of one",
	Long: `Without arguments, list the built-in profiles. With a profile name, or
with --schema, list every declared field with its kind, default, range or
allowed values, and the environment variable that overrides it.

Examples:
  confstore profiles
  confstore profiles gui
  confstore profiles --schema tutor.schema.yaml --format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

type profileSummary struct {
	Name        string `json:"name" yaml:"name"`
	EnvPrefix   string `json:"env_prefix" yaml:"env_prefix"`
	Fields      int    `json:"fields" yaml:"fields"`
	Description string `json:"description" yaml:"description"`
}

type profileList []profileSummary

func (l profileList) Header() []string {
	return []string{"NAME", "ENV PREFIX", "FIELDS", "DESCRIPTION"}
}

func (l profileList) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, p := range l {
		rows[i] = []string{p.Name, p.EnvPrefix, strconv.Itoa(p.Fields), p.Description}
	}
	return rows
}

type fieldInfo struct {
	Path     string   `json:"path" yaml:"path"`
	Kind     string   `json:"kind" yaml:"kind"`
	Required bool     `json:"required" yaml:"required"`
	Default  any      `json:"default,omitempty" yaml:"default,omitempty"`
	Range    string   `json:"range,omitempty" yaml:"range,omitempty"`
	Enum     []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	EnvVar   string   `json:"env_var,omitempty" yaml:"env_var,omitempty"`
}

type fieldTable []fieldInfo

func (t fieldTable) Header() []string {
	return []string{"PATH", "KIND", "DEFAULT", "CONSTRAINT", "ENV"}
}

func (t fieldTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, f := range t {
		def := "(required)"
		if !f.Required {
			def = "-"
			if f.Default != nil {
				def = fmt.Sprint(f.Default)
			}
		}
		constraint := f.Range
		if len(f.Enum) > 0 {
			constraint = strings.Join(f.Enum, "|")
		}
		if constraint == "" {
			constraint = "-"
		}
		env := f.EnvVar
		if env == "" {
			env = "-"
		}
		rows[i] = []string{f.Path, f.Kind, def, constraint, env}
	}
	return rows
}

func runProfiles(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 && schemaFile == "" {
		var list profileList
		for _, name := range profiles.Names() {
			p, err := profiles.Lookup(name)
			if err != nil {
				return err
			}
			list = append(list, profileSummary{
				Name:        p.Name(),
				EnvPrefix:   p.EnvPrefix,
				Fields:      len(p.Schema.Fields),
				Description: p.Schema.Description,
			})
		}
		return formatter.FormatTo(out, list)
	}

	var (
		schema *config.Schema
		prefix string
	)
	if len(args) == 1 {
		p, err := profiles.Lookup(args[0])
		if err != nil {
			return cli.NewConfigError("profile", err.Error())
		}
		schema, prefix = p.Schema, p.EnvPrefix
		if envPrefix != "" {
			prefix = envPrefix
		}
	} else {
		schema, prefix, err = resolveSchema()
		if err != nil {
			return err
		}
	}

	return formatter.FormatTo(out, describeFields(schema, prefix))
}

func describeFields(schema *config.Schema, prefix string) fieldTable {
	table := make(fieldTable, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		info := fieldInfo{
			Path:     f.Path,
			Kind:     f.Kind.String(),
			Required: f.Required,
			Default:  f.Default,
			Range:    f.RangeString(),
			Enum:     f.Enum,
		}
		if prefix != "" && f.Kind != config.KindMap && f.Kind != config.KindStringMap {
			info.EnvVar = config.EnvVarName(prefix, f.Path)
		}
		table = append(table, info)
	}
	return table
}
