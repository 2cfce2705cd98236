/*
Package cli provides helpers shared by the voicebroker commands.

Output Formatting:

Commands render results as text, JSON or CSV:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	table := &cli.Table{Headers: []string{"provider", "field", "value"}, Rows: rows, Data: doc}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Exit codes come from ExitCode: configuration errors exit with 2, every
other failure with 1.
*/
package cli
