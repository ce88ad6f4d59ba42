package cmd

import (
	"fmt"

	"cliptools/pkg/config"
	"cliptools/pkg/errors"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cliptools configuration",
	Long:  `Inspect and initialize the per-user defaults for paste and error output.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}

		fmt.Println("Current Configuration:")
		fmt.Println("======================")
		fmt.Printf("Binary output: %s\n", loaded.Binary)
		fmt.Printf("Color output: %s\n", loaded.Color)
		fmt.Printf("Trailing newline: %t\n", loaded.Newline)

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(config.Default()); err != nil {
			return err
		}

		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
