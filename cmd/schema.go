package cmd

import (
	"encoding/json"

	"github.com/pf-cli/pf/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of --output json",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		handleErr(enc.Encode(output.Schema()))
	},
}
