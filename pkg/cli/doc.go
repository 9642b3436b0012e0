/*
Package cli provides command-line interface utilities for the confstore command.

The cli package includes output formatters, exit code mapping, and signal
handling shared by all subcommands.

Output Formatting:

Command results can be written as text, JSON, YAML or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Values that implement Texter control their text rendering; values that
implement Tabular are rendered as aligned columns in text and as rows in CSV.

Exit Codes:

ExitCode maps errors to the process exit status so that scripts can tell a
malformed file from an invalid one:

	0  success
	1  general failure
	2  validation failed
	3  source could not be parsed
	4  key not found or of another type

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
