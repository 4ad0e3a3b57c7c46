package cli

import "github.com/spf13/cobra"

// addJSONFlag registers the --json flag shared by commands that can print a
// machine-readable result.
func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output results in JSON format")
}
