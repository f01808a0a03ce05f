/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/codepage"
	"github.com/ssargent/xbase/pkg/config"
	"github.com/ssargent/xbase/pkg/di"
	"github.com/ssargent/xbase/pkg/table"
)

// container carries the process-wide services injected by main
var container *di.Container

// cfg holds the effective configuration for the current invocation
var cfg = config.DefaultConfig()

// SetContainer injects the dependency container built in main
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xbase",
	Short: "xbase - dBASE table file toolkit",
	Long: `xbase reads, writes and converts dBASE (.dbf) table files: inspect
headers, dump records to CSV or JSON, create and append to tables, pack
out deleted rows, and export tables into SQLite.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
			if !config.ConfigExists(configPath) {
				configPath = ""
			}
		}
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		}

		// The flag wins when set explicitly; otherwise the config file decides.
		level, _ := cmd.Flags().GetString("log-level")
		if !cmd.Flags().Changed("log-level") && cfg.Logging.Level != "" {
			level = cfg.Logging.Level
		}
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		logrus.SetLevel(parsed)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info",
		"Log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
}

// resolveCodepage picks the charset for Character data: an explicit name
// wins, then the config file, then the table's language driver byte. No
// match anywhere means the raw bytes pass through untranslated.
func resolveCodepage(name string, driver byte) (codepage.Codepage, error) {
	if name == "" {
		name = cfg.Codepage
	}
	if name != "" {
		return container.GetCodepageService().ByName(name)
	}
	if driver == 0 {
		return nil, nil
	}
	cp, err := container.GetCodepageService().ByLanguageDriver(driver)
	if err != nil {
		logrus.Warnf("unknown language driver 0x%02X, reading bytes raw", driver)
		return nil, nil
	}
	return cp, nil
}

// openTableReader opens a table with the charset resolved from the flag,
// the config, or the file's own language driver byte.
func openTableReader(path, codepageName string) (*table.Reader, error) {
	probe, err := table.OpenReader(path, table.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	driver := probe.Header().LanguageDriver()
	probe.Close()

	cp, err := resolveCodepage(codepageName, driver)
	if err != nil {
		return nil, err
	}
	return table.OpenReader(path, table.ReaderConfig{Decoder: cp})
}
