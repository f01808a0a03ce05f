/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/table"
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <file>",
	Short: "Drop soft-deleted rows and rewrite the table",
	Long: `Remove every soft-deleted row from a table and rewrite the file in
place. The header's record count and update date are refreshed. Character
bytes are not translated, so packing never touches text encoding.

Example:
  xbase pack people.dbf`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tbl, err := table.OpenFile(args[0], table.Options{})
		if err != nil {
			cmd.Printf("Error loading table: %v\n", err)
			os.Exit(1)
		}

		dropped, err := tbl.Compact()
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if dropped == 0 {
			cmd.Printf("Nothing to pack: %s has no deleted rows\n", args[0])
			return
		}

		if err := tbl.WriteFile(args[0]); err != nil {
			cmd.Printf("Error writing table: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("Packed %s: dropped %d rows, %d remain\n", args[0], dropped, tbl.Len())
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
}
