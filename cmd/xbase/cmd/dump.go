/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/codec"
	"github.com/ssargent/xbase/pkg/memo"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Stream a table's records to CSV or JSON lines",
	Long: `Stream every record of a table to standard output, one row at a
time. Rows whose values cannot be parsed are skipped with a warning;
soft-deleted rows are skipped unless --deleted is given.

Memo fields are resolved through the .dbt file sitting next to the table
when one exists; otherwise the block pointer is printed.

Examples:
  xbase dump people.dbf
  xbase dump people.dbf --format json --deleted
  xbase dump people.dbf --codepage cp866`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		includeDeleted, _ := cmd.Flags().GetBool("deleted")
		codepageName, _ := cmd.Flags().GetString("codepage")

		if format == "" {
			format = cfg.Dump.Format
		}
		if !includeDeleted {
			includeDeleted = cfg.Dump.IncludeDeleted
		}
		if format != "csv" && format != "json" {
			cmd.Printf("Error: unknown format %q (want csv or json)\n", format)
			os.Exit(1)
		}

		r, err := openTableReader(args[0], codepageName)
		if err != nil {
			cmd.Printf("Error opening table: %v\n", err)
			os.Exit(1)
		}
		defer r.Close()

		var resolver codec.MemoResolver
		if f := openSidecarMemo(args[0]); f != nil {
			resolver = f
			defer f.Close()
		}

		if err := dumpRecords(cmd.OutOrStdout(), r.Next, r.Fields(), format, includeDeleted, resolver); err != nil {
			cmd.Printf("Error dumping table: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().String("format", "", "Output format: csv or json (default from config)")
	dumpCmd.Flags().Bool("deleted", false, "Include soft-deleted rows")
	dumpCmd.Flags().String("codepage", "", "Charset for Character fields (overrides the language driver byte)")
}

// openSidecarMemo opens the .dbt next to a table if there is one. A table
// without memo data just returns nil.
func openSidecarMemo(tablePath string) *memo.File {
	base := strings.TrimSuffix(tablePath, filepath.Ext(tablePath))
	dbtPath := base + ".dbt"
	if _, err := os.Stat(dbtPath); err != nil {
		return nil
	}
	f, err := container.GetMemoService().Open(dbtPath)
	if err != nil {
		logrus.Warnf("cannot open memo file %s: %v", dbtPath, err)
		return nil
	}
	return f
}

// dumpRecords drains a record source into w. Rows failing with a value
// error are skipped with a warning; anything structural aborts the dump.
func dumpRecords(w io.Writer, next func() (*codec.Record, error), fields []codec.FieldDescriptor,
	format string, includeDeleted bool, resolver codec.MemoResolver) error {
	var csvw *csv.Writer
	var enc *json.Encoder
	if format == "csv" {
		csvw = csv.NewWriter(w)
		header := make([]string, 0, len(fields)+1)
		if includeDeleted {
			header = append(header, "DELETED")
		}
		for _, fd := range fields {
			header = append(header, fd.Name)
		}
		if err := csvw.Write(header); err != nil {
			return err
		}
	} else {
		enc = json.NewEncoder(w)
	}

	index := int64(-1)
	for {
		index++
		rec, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if codec.IsValueError(err) {
				logrus.Warnf("skipping record %d: %v", index, err)
				continue
			}
			return err
		}
		if rec.Deleted && !includeDeleted {
			continue
		}

		if csvw != nil {
			row := make([]string, 0, len(fields)+1)
			if includeDeleted {
				row = append(row, strconv.FormatBool(rec.Deleted))
			}
			for i := range fields {
				row = append(row, formatValue(rec.Value(i), resolver))
			}
			if err := csvw.Write(row); err != nil {
				return err
			}
			continue
		}

		obj := make(map[string]interface{}, len(fields)+1)
		if includeDeleted {
			obj["_deleted"] = rec.Deleted
		}
		for i, fd := range fields {
			obj[fd.Name] = jsonValue(rec.Value(i), resolver)
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}

	if csvw != nil {
		csvw.Flush()
		return csvw.Error()
	}
	return nil
}

// formatValue renders a decoded value for CSV output. Absent values render
// as the empty string.
func formatValue(v interface{}, resolver codec.MemoResolver) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	case codec.MemoPointer:
		return memoText(x, resolver)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// jsonValue maps a decoded value onto what encoding/json should see.
func jsonValue(v interface{}, resolver codec.MemoResolver) interface{} {
	switch x := v.(type) {
	case time.Time:
		return x.Format("2006-01-02")
	case codec.MemoPointer:
		return memoText(x, resolver)
	default:
		return v
	}
}

// memoText resolves a memo pointer when a .dbt is at hand, or renders the
// pointer itself when not.
func memoText(ptr codec.MemoPointer, resolver codec.MemoResolver) string {
	if resolver == nil {
		return fmt.Sprintf("memo:%d", int64(ptr))
	}
	text, err := resolver.Resolve(ptr)
	if err != nil {
		logrus.Warnf("memo block %d: %v", int64(ptr), err)
		return fmt.Sprintf("memo:%d", int64(ptr))
	}
	return string(text)
}
