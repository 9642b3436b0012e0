package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
	"vidlearn-hq/confstore/pkg/config/profiles"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init FILE",
	Short: "Create a configuration file with profile defaults",
	Long: `Write a configuration file holding every default of the profile plus
sample values for required fields. The format follows the file extension.

An existing file is left untouched unless --force is given.

Examples:
  # Create the translation configuration
  confstore init config.yaml

  # Recreate the gui configuration as JSON
  confstore init --profile gui gui_config.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := args[0]

	template, err := initTemplate()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if initFlags.force {
		if err := config.WriteFile(template, path); err != nil {
			return cli.NewCommandError("init", err)
		}
		fmt.Fprintf(out, "wrote %s\n", path)
		return nil
	}

	created, err := config.EnsureFile(path, template)
	if err != nil {
		return cli.NewCommandError("init", err)
	}
	if created {
		fmt.Fprintf(out, "created %s\n", path)
	} else {
		fmt.Fprintf(out, "%s already exists, left untouched (use --force to overwrite)\n", path)
	}
	return nil
}

// initTemplate returns the document written by init. Schema files carry no
// sample values, so their required fields are left out.
func initTemplate() (*config.Document, error) {
	if schemaFile != "" {
		schema, _, err := resolveSchema()
		if err != nil {
			return nil, err
		}
		return schema.Defaults(), nil
	}

	p, err := profiles.Lookup(profileName)
	if err != nil {
		return nil, cli.NewConfigError("--profile", err.Error())
	}
	return p.Template(), nil
}
