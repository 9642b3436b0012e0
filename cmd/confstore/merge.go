package main

import (
	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
)

var mergeFlags struct {
	output   string
	to       string
	validate bool
}

var mergeCmd = &cobra.Command{
	Use:   "merge BASE OVERRIDE...",
	Short: "Merge configuration files leaf by leaf",
	Long: `Merge override files into a base file. Mappings are merged recursively;
any other value in an override, lists included, replaces the base value.
Keys that appear only in the base are kept.

Examples:
  # Print the merged document
  confstore merge config.yaml config.local.yaml

  # Write the merged document as TOML
  confstore merge config.yaml config.local.yaml --to toml -o merged.toml

  # Fail unless the merged document is valid
  confstore merge config.yaml config.local.yaml --validate`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVarP(&mergeFlags.output, "output", "o", "", "write the merged document to this file")
	mergeCmd.Flags().StringVar(&mergeFlags.to, "to", "", "document format: yaml, json, toml (defaults to the output or base file format)")
	mergeCmd.Flags().BoolVar(&mergeFlags.validate, "validate", false, "validate the merged document against the profile")
}

func runMerge(cmd *cobra.Command, args []string) error {
	docs := make([]*config.Document, 0, len(args))
	for _, f := range args {
		doc, err := config.LoadFile(f)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	merged := config.MergeAll(docs...)

	if mergeFlags.validate {
		schema, _, err := resolveSchema()
		if err != nil {
			return err
		}
		if _, err := config.Validate(merged, schema); err != nil {
			return err
		}
	}

	if mergeFlags.output != "" {
		if mergeFlags.to != "" {
			if f, err := config.ParseFormat(mergeFlags.to); err != nil || f != config.DetectFormat(mergeFlags.output) {
				return cli.NewConfigError("--to", "format does not match the extension of --output")
			}
		}
		if err := config.WriteFile(merged, mergeFlags.output); err != nil {
			return cli.NewCommandError("merge", err)
		}
		return nil
	}

	format := config.DetectFormat(args[0])
	if mergeFlags.to != "" {
		f, err := config.ParseFormat(mergeFlags.to)
		if err != nil {
			return cli.NewConfigError("--to", err.Error())
		}
		format = f
	}

	data, err := config.Encode(merged, format)
	if err != nil {
		return cli.NewCommandError("merge", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
