/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/codec"
	"github.com/ssargent/xbase/pkg/codepage"
	"github.com/ssargent/xbase/pkg/table"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Create a new empty table",
	Long: `Create a new empty table from field specifications.

Each --field takes NAME,TYPE[,LENGTH[,DECIMALS]]. Types are C (character,
length required), N (numeric, length required, optional decimals),
F (float), L (logical), D (date) and M (memo); L, D and M have fixed
widths.

Examples:
  xbase create people.dbf --field NAME,C,30 --field AGE,N,3
  xbase create ledger.dbf --field ITEM,C,20 --field PRICE,N,8,2 --field NOTES,M
  xbase create names.dbf --field NAME,C,30 --codepage cp866`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		specs, _ := cmd.Flags().GetStringArray("field")
		codepageName, _ := cmd.Flags().GetString("codepage")
		force, _ := cmd.Flags().GetBool("force")

		if len(specs) == 0 {
			cmd.Printf("Error: at least one --field is required\n")
			os.Exit(1)
		}
		if !force {
			if _, err := os.Stat(args[0]); err == nil {
				cmd.Printf("Table %s already exists. Use --force to overwrite.\n", args[0])
				os.Exit(1)
			}
		}

		fields := make([]codec.FieldDescriptor, 0, len(specs))
		for _, spec := range specs {
			fd, err := parseFieldSpec(spec)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			fields = append(fields, fd)
		}

		opts := table.Options{}
		if codepageName != "" {
			driver, ok := codepage.DriverFor(codepageName)
			if !ok {
				cmd.Printf("Error: no language driver byte for codepage %q\n", codepageName)
				os.Exit(1)
			}
			opts.LanguageDriver = driver
		}

		tbl, err := table.New(fields, opts)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := tbl.WriteFile(args[0]); err != nil {
			cmd.Printf("Error writing table: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Created %s with %d fields\n", args[0], len(fields))
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringArray("field", nil, "Field specification NAME,TYPE[,LENGTH[,DECIMALS]] (repeatable)")
	createCmd.Flags().String("codepage", "", "Charset to stamp as the table's language driver byte")
	createCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

// parseFieldSpec turns NAME,TYPE[,LENGTH[,DECIMALS]] into a field
// descriptor. Names are upcased; fixed-width types accept an explicit
// length only when it matches.
func parseFieldSpec(spec string) (codec.FieldDescriptor, error) {
	parts := strings.Split(spec, ",")
	if len(parts) < 2 || len(parts) > 4 {
		return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: want NAME,TYPE[,LENGTH[,DECIMALS]]", spec)
	}

	name := strings.ToUpper(strings.TrimSpace(parts[0]))
	typeStr := strings.ToUpper(strings.TrimSpace(parts[1]))
	if len(typeStr) != 1 {
		return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: type must be a single letter", spec)
	}

	var length, decimals uint64
	var err error
	if len(parts) > 2 {
		length, err = strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 8)
		if err != nil {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: bad length: %v", spec, err)
		}
	}
	if len(parts) > 3 {
		decimals, err = strconv.ParseUint(strings.TrimSpace(parts[3]), 10, 8)
		if err != nil {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: bad decimals: %v", spec, err)
		}
	}

	switch codec.FieldType(typeStr[0]) {
	case codec.Character:
		if length == 0 {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: character fields need a length", spec)
		}
		return codec.CharacterField(name, uint8(length))
	case codec.Numeric:
		if length == 0 {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: numeric fields need a length", spec)
		}
		return codec.NumericField(name, uint8(length), uint8(decimals))
	case codec.Float:
		if length == 0 {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: float fields need a length", spec)
		}
		return codec.FloatField(name, uint8(length), uint8(decimals))
	case codec.Logical:
		if len(parts) > 2 && length != 1 {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: logical fields are 1 byte wide", spec)
		}
		return codec.LogicalField(name)
	case codec.Date:
		if len(parts) > 2 && length != 8 {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: date fields are 8 bytes wide", spec)
		}
		return codec.DateField(name)
	case codec.Memo:
		if len(parts) > 2 && length != 10 {
			return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: memo fields are 10 bytes wide", spec)
		}
		return codec.MemoField(name)
	default:
		return codec.FieldDescriptor{}, fmt.Errorf("field spec %q: unknown type %q", spec, typeStr)
	}
}
