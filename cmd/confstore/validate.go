package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
	"vidlearn-hq/confstore/pkg/telemetry/metrics"
)

var validateFlags struct {
	fallback    bool
	strict      bool
	metricsFile string
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate configuration files against a profile",
	Long: `Load one or more configuration files, merge them in order, apply
environment overrides, and check the result against the profile schema.

Every violation is reported, not just the first one. Keys the schema does
not declare are kept and listed as warnings.

Exit codes:
  0  configuration is valid
  2  configuration violates the schema
  3  a file could not be parsed

Examples:
  # Validate a single file
  confstore validate config.yaml

  # Validate a base file with a local override
  confstore validate config.yaml config.local.yaml

  # Replace violated fields with their defaults where possible
  confstore validate --fallback config.yaml

  # Machine-readable report
  confstore validate config.yaml --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.fallback, "fallback", false, "replace violated fields that have a default with that default")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "treat unknown keys as errors")
	validateCmd.Flags().StringVar(&validateFlags.metricsFile, "metrics-file", "", "write validation metrics in Prometheus text format to this file")
}

// validationReport is the outcome of one validate run.
type validationReport struct {
	Profile     string              `json:"profile" yaml:"profile"`
	Sources     []string            `json:"sources" yaml:"sources"`
	Valid       bool                `json:"valid" yaml:"valid"`
	Errors      []config.FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Repaired    []string            `json:"repaired,omitempty" yaml:"repaired,omitempty"`
	UnknownKeys []string            `json:"unknown_keys,omitempty" yaml:"unknown_keys,omitempty"`

	suggestions map[string]string
}

func (r *validationReport) Text() string {
	var sb strings.Builder
	source := strings.Join(r.Sources, " + ")
	if r.Valid {
		fmt.Fprintf(&sb, "%s: valid (%s)\n", source, r.Profile)
	} else {
		fmt.Fprintf(&sb, "%s: invalid (%s)\n", source, r.Profile)
		for _, fe := range r.Errors {
			fmt.Fprintf(&sb, "  - %s [%s]: %s\n", fe.Field, fe.Code, fe.Message)
		}
	}
	for _, path := range r.Repaired {
		fmt.Fprintf(&sb, "  repaired: %s reset to its default\n", path)
	}
	for _, key := range r.UnknownKeys {
		if s := r.suggestions[key]; s != "" {
			fmt.Fprintf(&sb, "  warning: unknown key %s (did you mean %s?)\n", key, s)
		} else {
			fmt.Fprintf(&sb, "  warning: unknown key %s\n", key)
		}
	}
	return sb.String()
}

func (r *validationReport) Header() []string {
	return []string{"field", "code", "message"}
}

func (r *validationReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Errors)+len(r.UnknownKeys))
	for _, fe := range r.Errors {
		rows = append(rows, []string{fe.Field, string(fe.Code), fe.Message})
	}
	for _, key := range r.UnknownKeys {
		rows = append(rows, []string{key, "unknown_key", "key is not declared by the schema"})
	}
	return rows
}

func runValidate(cmd *cobra.Command, args []string) error {
	schema, prefix, err := resolveSchema()
	if err != nil {
		return err
	}
	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	logger.Debug("validating configuration",
		"profile", schema.Name,
		"files", args,
		"env_prefix", prefix,
	)

	report := &validationReport{
		Profile: schema.Name,
		Sources: args,
	}

	opts := loadOptions(args, prefix, false)
	doc, err := config.LoadLayered(schema, opts)

	var verr *config.ValidationError
	if errors.As(err, &verr) && validateFlags.fallback {
		opts.Fallback = true
		repaired, rerr := config.LoadLayered(schema, opts)
		if rerr == nil {
			report.Repaired = repairedFields(verr.Errors, schema)
			doc, err = repaired, nil
		} else {
			err = rerr
		}
	}

	switch {
	case err == nil:
		report.Valid = true
		report.UnknownKeys = config.UnknownKeys(doc, schema)
		report.suggestions = suggestPaths(report.UnknownKeys, schema)
	case errors.As(err, &verr):
		report.Errors = verr.Errors
	default:
		return cli.NewCommandError("validate", err)
	}

	if validateFlags.strict && len(report.UnknownKeys) > 0 {
		report.Valid = false
	}

	if validateFlags.metricsFile != "" {
		if err := writeValidationMetrics(validateFlags.metricsFile, schema.Name, report); err != nil {
			logger.Warn("failed to write metrics file", "path", validateFlags.metricsFile, "error", err)
		}
	}

	if err := formatter.FormatTo(cmd.OutOrStdout(), report); err != nil {
		return cli.NewCommandError("validate", err)
	}

	if !report.Valid {
		return &cli.ExitError{Code: cli.ExitInvalid}
	}
	return nil
}

// repairedFields names the declared fields that fallback reset, once each.
// Errors on map entries or list elements belong to their field; errors on a
// non-mapping section keep the section path.
func repairedFields(errs []config.FieldError, schema *config.Schema) []string {
	seen := make(map[string]bool, len(errs))
	var out []string
	for _, fe := range errs {
		path := fe.Field
		if f, ok := schema.FieldFor(path); ok {
			path = f.Path
		}
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	return out
}

// suggestPaths maps each unknown key to the closest declared field path.
func suggestPaths(unknown []string, schema *config.Schema) map[string]string {
	paths := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		paths[i] = f.Path
	}
	out := make(map[string]string, len(unknown))
	for _, key := range unknown {
		if s := config.Suggest(key, paths); s != "" {
			out[key] = s
		}
	}
	return out
}

func writeValidationMetrics(path, profile string, report *validationReport) error {
	collector := metrics.NewCollector(metrics.DefaultConfig(), nil)
	collector.RecordValidation(profile, report.Errors)
	collector.RecordUnknownKeys(profile, len(report.UnknownKeys))
	return prometheus.WriteToTextfile(path, collector.Registry())
}
