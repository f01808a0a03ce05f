/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/codec"
	"github.com/ssargent/xbase/pkg/table"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print a table's header and field layout",
	Long: `Print a table's header fields and the descriptor of every column.

Example:
  xbase inspect people.dbf`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r, err := table.OpenReader(args[0], table.ReaderConfig{})
		if err != nil {
			cmd.Printf("Error opening table: %v\n", err)
			os.Exit(1)
		}
		defer r.Close()

		header := r.Header()
		dialect, _ := codec.VersionName(header.Version)
		lastUpdate := "-"
		if !header.LastUpdate().IsZero() {
			lastUpdate = header.LastUpdate().Format("2006-01-02")
		}

		cmd.Printf("File:            %s\n", args[0])
		cmd.Printf("Dialect:         %s (0x%02X)\n", dialect, header.Version)
		cmd.Printf("Last update:     %s\n", lastUpdate)
		cmd.Printf("Records:         %d\n", header.RecordCount)
		cmd.Printf("Header length:   %d\n", header.HeaderLength)
		cmd.Printf("Record length:   %d\n", header.RecordLength)
		cmd.Printf("Language driver: 0x%02X\n", header.LanguageDriver())
		cmd.Printf("\n")

		cmd.Printf("%-11s %-10s %7s %9s\n", "FIELD", "TYPE", "LENGTH", "DECIMALS")
		for _, fd := range r.Fields() {
			cmd.Printf("%-11s %-10s %7d %9d\n", fd.Name, fd.Type.String(), fd.Length, fd.DecimalCount)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
