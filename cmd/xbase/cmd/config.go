/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage xbase configuration",
	Long: `Manage the xbase configuration file. The file carries defaults for
the dump format, the fallback codepage and the log level.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with default settings.

Examples:
  xbase config init
  xbase config init --codepage cp850 --path ./xbase.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("path")
		codepageName, _ := cmd.Flags().GetString("codepage")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		if _, err := config.BootstrapConfig(configPath, codepageName); err != nil {
			cmd.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Wrote config to %s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().String("path", "", "Where to write the config (default: the platform config dir)")
	configInitCmd.Flags().String("codepage", "", "Default charset for Character fields")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
