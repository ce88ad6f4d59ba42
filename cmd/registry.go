package cmd

import "github.com/spf13/cobra"

func RegisterCommands(root *cobra.Command) {
	root.AddCommand(versionCmd)
	root.AddCommand(clipboardServeCmd)

	root.AddCommand(pasteCmd)
	root.AddCommand(listTypesCmd)
	root.AddCommand(copyCmd)
	root.AddCommand(configCmd)
}
