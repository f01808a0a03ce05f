/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ssargent/xbase/pkg/codec"
	"github.com/ssargent/xbase/pkg/table"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a table into a SQLite database",
	Long: `Copy a table's records into a SQLite database, creating the
destination table from the field layout when it does not exist. All rows
go in one transaction. Rows with unparseable values are skipped with a
warning; soft-deleted rows are skipped unless --deleted is given.

Examples:
  xbase export people.dbf --db people.sqlite
  xbase export people.dbf --db archive.sqlite --table people_2024`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dbPath, _ := cmd.Flags().GetString("db")
		tableName, _ := cmd.Flags().GetString("table")
		codepageName, _ := cmd.Flags().GetString("codepage")
		includeDeleted, _ := cmd.Flags().GetBool("deleted")

		if tableName == "" {
			base := filepath.Base(args[0])
			tableName = strings.TrimSuffix(base, filepath.Ext(base))
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

		db, err := sql.Open("sqlite3", dbPath)
		if err != nil {
			cmd.Printf("Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		count, err := exportTable(db, tableName, r, includeDeleted, resolver)
		if err != nil {
			cmd.Printf("Error exporting table: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Exported %d records into %s table %q\n", count, dbPath, tableName)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("db", "", "SQLite database file (required)")
	exportCmd.Flags().String("table", "", "Destination table name (default: the file's base name)")
	exportCmd.Flags().String("codepage", "", "Charset for Character fields (overrides the language driver byte)")
	exportCmd.Flags().Bool("deleted", false, "Include soft-deleted rows")
	if err := exportCmd.MarkFlagRequired("db"); err != nil {
		panic(err)
	}
}

// exportTable creates the destination table and copies every record in one
// transaction.
func exportTable(db *sql.DB, name string, r *table.Reader, includeDeleted bool,
	resolver codec.MemoResolver) (int, error) {
	fields := r.Fields()

	columns := make([]string, len(fields))
	names := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fmt.Sprintf("%s %s", quoteIdent(fd.Name), sqliteType(fd))
		names[i] = quoteIdent(fd.Name)
		placeholders[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(name), strings.Join(columns, ", "))
	if _, err := db.Exec(create); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(names, ", "), strings.Join(placeholders, ", "))

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	index := int64(-1)
	for {
		index++
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if codec.IsValueError(err) {
				logrus.Warnf("skipping record %d: %v", index, err)
				continue
			}
			return 0, err
		}
		if rec.Deleted && !includeDeleted {
			continue
		}

		row := make([]interface{}, len(fields))
		for i := range fields {
			row[i] = sqliteValue(rec.Value(i), resolver)
		}
		if _, err := stmt.Exec(row...); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", index, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// sqliteType maps a field descriptor onto a SQLite column affinity.
func sqliteType(fd codec.FieldDescriptor) string {
	switch fd.Type {
	case codec.Numeric:
		if fd.DecimalCount == 0 {
			return "INTEGER"
		}
		return "REAL"
	case codec.Float:
		return "REAL"
	case codec.Logical:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// sqliteValue maps a decoded value onto its SQL binding. Absent values bind
// as NULL.
func sqliteValue(v interface{}, resolver codec.MemoResolver) interface{} {
	switch x := v.(type) {
	case time.Time:
		return x.Format("2006-01-02")
	case codec.MemoPointer:
		return memoText(x, resolver)
	default:
		return v
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
