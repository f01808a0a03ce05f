/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/codec"
	"github.com/ssargent/xbase/pkg/table"
)

// appendCmd represents the append command
var appendCmd = &cobra.Command{
	Use:   "append <file>",
	Short: "Append records from a CSV file to a table",
	Long: `Append rows from a CSV file to an existing table.

The CSV's first line must carry column names matching the table's fields
(any order, case-insensitive). Empty cells store the no-value marker.
Dates are read as YYYY-MM-DD or YYYYMMDD.

Example:
  xbase append people.dbf --from new_people.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		codepageName, _ := cmd.Flags().GetString("codepage")

		probe, err := table.OpenReader(args[0], table.ReaderConfig{})
		if err != nil {
			cmd.Printf("Error opening table: %v\n", err)
			os.Exit(1)
		}
		driver := probe.Header().LanguageDriver()
		probe.Close()

		cp, err := resolveCodepage(codepageName, driver)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		opts := table.Options{}
		if cp != nil {
			opts.Decoder = cp
			opts.Encoder = cp
		}

		tbl, err := table.OpenFile(args[0], opts)
		if err != nil {
			cmd.Printf("Error loading table: %v\n", err)
			os.Exit(1)
		}

		f, err := os.Open(from)
		if err != nil {
			cmd.Printf("Error opening csv: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		added, err := appendCSV(tbl, csv.NewReader(f))
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := tbl.WriteFile(args[0]); err != nil {
			cmd.Printf("Error writing table: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Appended %d records to %s\n", added, args[0])
	},
}

func init() {
	rootCmd.AddCommand(appendCmd)

	appendCmd.Flags().String("from", "", "CSV file to read rows from (required)")
	appendCmd.Flags().String("codepage", "", "Charset for Character fields (overrides the language driver byte)")
	if err := appendCmd.MarkFlagRequired("from"); err != nil {
		panic(err)
	}
}

// appendCSV maps CSV columns onto table fields by header name and adds one
// record per row. Any unparseable cell aborts; rows already added stay.
func appendCSV(tbl *table.Table, cr *csv.Reader) (int, error) {
	header, err := cr.Read()
	if err == io.EOF {
		return 0, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return 0, err
	}

	byName := make(map[string]codec.FieldDescriptor, len(tbl.Fields()))
	for _, fd := range tbl.Fields() {
		byName[fd.Name] = fd
	}
	columns := make([]codec.FieldDescriptor, len(header))
	for i, col := range header {
		fd, ok := byName[strings.ToUpper(strings.TrimSpace(col))]
		if !ok {
			return 0, fmt.Errorf("csv column %q has no matching field", col)
		}
		columns[i] = fd
	}

	added := 0
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, err
		}

		values := make(map[string]interface{}, len(cells))
		for i, cell := range cells {
			v, err := parseCell(columns[i], cell)
			if err != nil {
				return added, fmt.Errorf("csv record %d, column %s: %w", added+2, columns[i].Name, err)
			}
			if v != nil {
				values[columns[i].Name] = v
			}
		}
		if _, err := tbl.Add(values); err != nil {
			return added, fmt.Errorf("csv record %d: %w", added+2, err)
		}
		added++
	}
	return added, nil
}

// parseCell converts one CSV cell into the value domain of its field. A
// blank cell is the no-value marker. Leading spaces of Character cells are
// kept; everything else parses the trimmed text.
func parseCell(fd codec.FieldDescriptor, cell string) (interface{}, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil, nil
	}

	switch fd.Type {
	case codec.Character:
		return cell, nil
	case codec.Numeric:
		if fd.DecimalCount == 0 {
			n, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad integer %q", cell)
			}
			return n, nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", cell)
		}
		return f, nil
	case codec.Float:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", cell)
		}
		return f, nil
	case codec.Logical:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, fmt.Errorf("bad logical %q", cell)
		}
		return b, nil
	case codec.Date:
		for _, layout := range []string{"2006-01-02", "20060102"} {
			if d, err := time.Parse(layout, trimmed); err == nil {
				return d, nil
			}
		}
		return nil, fmt.Errorf("bad date %q (want YYYY-MM-DD)", cell)
	case codec.Memo:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad memo block pointer %q", cell)
		}
		return codec.MemoPointer(n), nil
	default:
		return nil, fmt.Errorf("unsupported field type %q", fd.Type.String())
	}
}
