package cmd

import (
	"fmt"
	"os"

	"cliptools/pkg/completions"
	"cliptools/pkg/config"
	"cliptools/pkg/errors"
	"cliptools/pkg/logger"

	"github.com/spf13/cobra"
)

const unknownValue = "unknown"

var (
	Version   string
	BuildTime string
	GitCommit string
)

var (
	colorFlag string
	logLevel  string

	// cfg holds user defaults; flags always win over it.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "cliptools",
	Short: "Clipboard swiss-army knife",
	Long: `Read, inspect, and replace the system clipboard from the command line.
Supports typed content (url, html, pdf, png, rtf, text), platform-native
types, and atomic multi-format writes from a JSON payload.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set log level: explicit flag takes precedence over env var
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if envLevel := os.Getenv("CLIPTOOLS_LOG_LEVEL"); envLevel != "" {
				level = envLevel
			}
		}
		logger.SetLevel(level)

		loaded, err := config.Load()
		switch {
		case err == nil:
			cfg = loaded
		case errors.IsKind(err, errors.KindArgument):
			// A broken config file should not block clipboard commands.
			logger.Warn().Err(err).Msg("ignoring malformed config file")
		default:
			return errors.Wrap(err, "failed to load config")
		}

		mode := colorFlag
		if !cmd.Flags().Changed("color") && cfg.Color != "" {
			mode = cfg.Color
		}
		parsed, perr := errors.ParseColorMode(mode)
		if perr != nil {
			return perr
		}
		errors.SetColorMode(parsed)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.ArgumentWithSuggestion("you must specify a subcommand",
				"Run 'cliptools --help' for usage.")
		}
		return errors.ArgumentWithSuggestion("unknown subcommand "+args[0],
			"Run 'cliptools --help' for usage.")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ver := Version
		if ver == "" {
			ver = "dev"
		}
		bt := BuildTime
		if bt == "" {
			bt = unknownValue
		}
		gc := GitCommit
		if gc == "" {
			gc = unknownValue
		}

		fmt.Printf("cliptools version %s\n", ver)
		fmt.Printf("Built: %s\n", bt)
		fmt.Printf("Git commit: %s\n", gc)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if _, ok := err.(*errors.Error); !ok {
			// Anything cobra itself rejects is a usage problem.
			err = errors.ArgumentWithSuggestion(err.Error(), "Run 'cliptools --help' for usage.")
		}
		os.Exit(int(errors.HandleReturn(err)))
	}
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "Colorize error output (auto, always, never)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error, fatal, panic)")

	completions.RegisterColorFlag(rootCmd)
}
