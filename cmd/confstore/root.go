package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
	"vidlearn-hq/confstore/pkg/config/profiles"
	"vidlearn-hq/confstore/pkg/telemetry/logging"
)

var (
	// Global flags
	profileName string
	schemaFile  string
	envPrefix   string
	noEnv       bool
	logLevel    string
	logFormat   string
	outputFmt   string
)

var rootCmd = &cobra.Command{
	Use:   "confstore",
	Short: "confstore - schema-checked configuration loader",
	Long: `confstore loads YAML, JSON and TOML configuration files, checks them against
a profile schema, and reports every violation at once.

Each profile declares its sections and fields with a type, a default or a
required marker, and an optional numeric range or closed set of values.
Built-in profiles:
  - translation: Ollama model settings, response formatting and quality control
  - gui: widget throttling, memory management and video processing

A custom schema can be supplied with --schema.

Values can be overridden from the environment with PREFIX_SECTION_FIELD
variables, e.g. TUTOR_OLLAMA_TEMPERATURE=0.3.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitOK
	}

	// Failures that were already reported carry their own exit code.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "translation", "configuration profile: "+strings.Join(profiles.Names(), ", "))
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "schema file (overrides --profile)")
	rootCmd.PersistentFlags().StringVar(&envPrefix, "env-prefix", "", "environment override prefix (defaults to the profile prefix)")
	rootCmd.PersistentFlags().BoolVar(&noEnv, "no-env", false, "ignore environment overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "format", "f", "text", "output format: text, json, yaml, csv")
}

// resolveSchema returns the schema selected by --schema or --profile and
// the environment prefix that applies to it.
func resolveSchema() (*config.Schema, string, error) {
	prefix := envPrefix

	var schema *config.Schema
	if schemaFile != "" {
		s, err := config.LoadSchemaFile(schemaFile)
		if err != nil {
			return nil, "", err
		}
		schema = s
	} else {
		p, err := profiles.Lookup(profileName)
		if err != nil {
			return nil, "", cli.NewConfigError("--profile", err.Error())
		}
		schema = p.Schema
		if prefix == "" {
			prefix = p.EnvPrefix
		}
	}

	if noEnv {
		prefix = ""
	}
	return schema, prefix, nil
}

// loadOptions builds layered load options from file arguments. Every
// named file must exist.
func loadOptions(files []string, prefix string, fallback bool) config.LoadOptions {
	layers := make([]config.Layer, len(files))
	for i, f := range files {
		layers[i] = config.Layer{Path: f}
	}
	return config.LoadOptions{
		Layers:    layers,
		EnvPrefix: prefix,
		Fallback:  fallback,
	}
}

func newLogger() (*logging.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:  logLevel,
		Format: logFormat,
		Redact: true,
	})
	if err != nil {
		return nil, cli.NewConfigError("--log-level/--log-format", err.Error())
	}
	return logger, nil
}

func newFormatter() (cli.Formatter, error) {
	format, err := cli.ParseOutputFormat(outputFmt)
	if err != nil {
		return nil, cli.NewConfigError("--format", err.Error())
	}
	return cli.NewFormatter(format), nil
}
