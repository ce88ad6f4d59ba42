package cmd

import (
	"os"

	"cliptools/pkg/clipboard"

	"github.com/spf13/cobra"
)

var clipboardServeCmd = &cobra.Command{
	Use:    "__clipboard-serve",
	Hidden: true,
	Short:  "Internal: serve clipboard content over Wayland (do not call directly)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return clipboard.ServeStdin(os.Stdin)
	},
}
