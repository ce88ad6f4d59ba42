// Package completions registers shell completion for the flags with a
// fixed vocabulary.
package completions

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	typeNames    = []string{"url", "html", "pdf", "png", "rtf", "text"}
	binaryValues = []string{"auto", "always", "never"}
	colorValues  = []string{"auto", "always", "never"}
)

// RegisterTypeFlag completes --type with the portable type names.
func RegisterTypeFlag(cmd *cobra.Command) {
	cmd.RegisterFlagCompletionFunc("type", staticCompletion(typeNames)) //nolint:errcheck
}

// RegisterBinaryFlag completes --binary with the policy values.
func RegisterBinaryFlag(cmd *cobra.Command) {
	cmd.RegisterFlagCompletionFunc("binary", staticCompletion(binaryValues)) //nolint:errcheck
}

// RegisterColorFlag completes --color with the colorization modes.
func RegisterColorFlag(cmd *cobra.Command) {
	cmd.RegisterFlagCompletionFunc("color", staticCompletion(colorValues)) //nolint:errcheck
}

func staticCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		matches := make([]string, 0, len(values))
		for _, v := range values {
			if strings.HasPrefix(v, strings.ToLower(toComplete)) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}
