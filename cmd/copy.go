package cmd

import (
	"cliptools/pkg/clipboard"
	"cliptools/pkg/completions"
	"cliptools/pkg/transfer"

	"github.com/spf13/cobra"
)

var (
	copyTypeName   string
	copySystemType string
	copyJSON       bool
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Replace the clipboard with data from stdin",
	Long: `Read stdin to end-of-stream and write it to the clipboard under a single
type (--type, --system-type, or plain text by default). With --json, stdin
must be a JSON object mapping type names to string content; every format is
applied in one atomic write.`,
	Example: `  # Copy plain text
  echo -n "hello" | cliptools copy

  # Copy HTML under its own type
  cat snippet.html | cliptools copy --type html

  # Copy text and a link target at once
  echo '{"text": "example", "url": "http://example.com"}' | cliptools copy --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// An explicitly empty --type is not the same as no --type.
		if cmd.Flags().Changed("type") && copyTypeName == "" {
			_, err := clipboard.ParseType(copyTypeName)
			return err
		}

		svc := transfer.NewService(clipboard.New())
		return svc.Copy(transfer.CopyRequest{
			TypeName:       copyTypeName,
			SystemTypeName: copySystemType,
			JSON:           copyJSON,
		})
	},
}

func init() {
	copyCmd.Flags().StringVarP(&copyTypeName, "type", "t", "", "Format to store the data under: url, html, pdf, png, rtf, or text")
	copyCmd.Flags().StringVar(&copySystemType, "system-type", "", "Platform-native format to store the data under")
	copyCmd.Flags().BoolVar(&copyJSON, "json", false, "Read a JSON object of type/content pairs from stdin")
	copyCmd.MarkFlagsMutuallyExclusive("type", "system-type", "json")

	completions.RegisterTypeFlag(copyCmd)
}
