package cmd

import (
	"fmt"

	"cliptools/pkg/clipboard"
	"cliptools/pkg/transfer"

	"github.com/spf13/cobra"
)

var listSystemFlag bool

var listTypesCmd = &cobra.Command{
	Use:     "list-types",
	Aliases: []string{"types"},
	Short:   "Print the content types currently in the clipboard",
	Long: `Print one type name per line. Without --system, platform identifiers are
normalized into the portable vocabulary, sorted, and deduplicated; with
--system they come back verbatim in clipboard order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := transfer.NewService(clipboard.New())
		names, err := svc.ListTypes(listSystemFlag)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	listTypesCmd.Flags().BoolVar(&listSystemFlag, "system", false, "Print platform-native type identifiers verbatim")
}
