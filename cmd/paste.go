package cmd

import (
	"cliptools/pkg/clipboard"
	"cliptools/pkg/completions"
	"cliptools/pkg/transfer"

	"github.com/spf13/cobra"
)

var (
	pasteTypeName   string
	pasteSystemType string
	pasteBinary     string
	pasteNewline    bool
)

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Print data from the clipboard",
	Long: `Print clipboard contents to stdout, byte-exact with no trailing newline.
Binary output is refused when stdout is a terminal unless --binary always
is given.`,
	Example: `  # Print the clipboard text
  cliptools paste

  # Print the HTML flavor, if present
  cliptools paste --type html

  # Dump a platform-native type into a file
  cliptools paste --system-type image/png --binary always > shot.png`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// An explicitly empty --type is not the same as no --type.
		if cmd.Flags().Changed("type") && pasteTypeName == "" {
			_, err := clipboard.ParseType(pasteTypeName)
			return err
		}

		binaryValue := pasteBinary
		if !cmd.Flags().Changed("binary") && cfg.Binary != "" {
			binaryValue = cfg.Binary
		}
		policy, err := transfer.ParseBinaryPolicy(binaryValue)
		if err != nil {
			return err
		}

		newline := pasteNewline
		if !cmd.Flags().Changed("newline") {
			newline = cfg.Newline
		}

		svc := transfer.NewService(clipboard.New())
		return svc.Paste(transfer.PasteRequest{
			TypeName:       pasteTypeName,
			SystemTypeName: pasteSystemType,
			Binary:         policy,
			Newline:        newline,
		})
	},
}

func init() {
	pasteCmd.Flags().StringVarP(&pasteTypeName, "type", "t", "", "Format to fetch: url, html, pdf, png, rtf, or text")
	pasteCmd.Flags().StringVar(&pasteSystemType, "system-type", "", "Platform-native format to fetch, passed through verbatim")
	pasteCmd.Flags().StringVar(&pasteBinary, "binary", "auto", "Allow binary output (auto, always, never)")
	pasteCmd.Flags().BoolVarP(&pasteNewline, "newline", "n", false, "Append a trailing newline")
	pasteCmd.MarkFlagsMutuallyExclusive("type", "system-type")

	completions.RegisterTypeFlag(pasteCmd)
	completions.RegisterBinaryFlag(pasteCmd)
}
