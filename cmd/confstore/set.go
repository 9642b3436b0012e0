package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
)

var setCmd = &cobra.Command{
	Use:   "set PATH VALUE FILE",
	Short: "Change one value in a configuration file",
	Long: `Set a declared field in a configuration file and save it.

VALUE is parsed as the kind the profile declares for PATH: numbers in
decimal, booleans as true/false, string lists as comma-separated items.
Lookup tables cannot be set this way.

The file is only written when the result passes validation; otherwise
every violation is reported and the file is left as it was. Environment
overrides are not applied.

Examples:
  # Move the learner to the next level
  confstore set language_learning.user_level advanced config.yaml

  # Change the worker pool of the gui profile
  confstore set --profile gui threading.max_worker_threads 8 gui_config.json`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	path, raw, file := args[0], args[1], args[2]

	schema, _, err := resolveSchema()
	if err != nil {
		return err
	}

	field, ok := schema.Field(path)
	if !ok {
		err := error(&config.KeyNotFoundError{Path: path})
		if s := suggestPaths([]string{path}, schema)[path]; s != "" {
			err = fmt.Errorf("%w (did you mean %q?)", err, s)
		}
		return err
	}
	value, ok := config.ParseText(field, raw)
	if !ok {
		return cli.NewConfigError(path, fmt.Sprintf("%s fields cannot be set from the command line", field.Kind))
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}

	doc, err := config.LoadFile(file)
	if err != nil {
		return err
	}
	updated := doc.With(path, value)
	if _, err := config.Validate(updated, schema); err != nil {
		return err
	}
	if err := config.WriteFile(updated, file); err != nil {
		return cli.NewCommandError("set", err)
	}

	logger.Info("configuration value updated",
		"profile", schema.Name,
		"path", path,
		"file", file,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%s)\n", path, value, file)
	return nil
}
