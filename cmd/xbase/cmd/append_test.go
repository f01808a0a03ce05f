package cmd

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/xbase/pkg/codec"
	"github.com/ssargent/xbase/pkg/table"
)

func TestParseCell(t *testing.T) {
	char := must(codec.CharacterField("NAME", 10))
	count := must(codec.NumericField("COUNT", 5, 0))
	price := must(codec.NumericField("PRICE", 8, 2))
	rate := must(codec.FloatField("RATE", 10, 4))
	active := must(codec.LogicalField("ACTIVE"))
	birth := must(codec.DateField("BIRTH"))
	notes := must(codec.MemoField("NOTES"))

	tests := []struct {
		name string
		fd   codec.FieldDescriptor
		cell string
		want interface{}
	}{
		{"character", char, "John", "John"},
		{"character keeps spaces", char, " John ", " John "},
		{"blank is no value", char, "   ", nil},
		{"integer", count, "42", int64(42)},
		{"negative integer", count, " -7 ", int64(-7)},
		{"decimal", price, "19.99", 19.99},
		{"float", rate, "0.125", 0.125},
		{"logical true", active, "true", true},
		{"logical shorthand", active, "1", true},
		{"logical false", active, "f", false},
		{"iso date", birth, "1984-06-15", time.Date(1984, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"compact date", birth, "19840615", time.Date(1984, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"memo pointer", notes, "3", codec.MemoPointer(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCell(tt.fd, tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCell_Invalid(t *testing.T) {
	count := must(codec.NumericField("COUNT", 5, 0))
	active := must(codec.LogicalField("ACTIVE"))
	birth := must(codec.DateField("BIRTH"))

	tests := []struct {
		name string
		fd   codec.FieldDescriptor
		cell string
	}{
		{"integer with letters", count, "4x"},
		{"integer with decimals", count, "4.5"},
		{"bad logical", active, "maybe"},
		{"bad date", birth, "15/06/1984"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCell(tt.fd, tt.cell)
			assert.Error(t, err)
		})
	}
}

func must(fd codec.FieldDescriptor, err error) codec.FieldDescriptor {
	if err != nil {
		panic(err)
	}
	return fd
}

func TestAppendCSV(t *testing.T) {
	fields := []codec.FieldDescriptor{
		must(codec.CharacterField("NAME", 10)),
		must(codec.NumericField("AGE", 3, 0)),
	}
	tbl, err := table.New(fields, table.Options{})
	require.NoError(t, err)

	// Columns in table order are not required; names drive the mapping.
	input := "age,NAME\n25,John\n,Jane\n"
	added, err := appendCSV(tbl, csv.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, tbl.Len())

	rec, err := tbl.Record(0)
	require.NoError(t, err)
	name, err := rec.Get("NAME")
	require.NoError(t, err)
	age, err := rec.Get("AGE")
	require.NoError(t, err)
	assert.Equal(t, "John", name)
	assert.Equal(t, int64(25), age)

	// Blank cell stays a no-value.
	rec, err = tbl.Record(1)
	require.NoError(t, err)
	age, err = rec.Get("AGE")
	require.NoError(t, err)
	assert.Nil(t, age)
}

func TestAppendCSV_Errors(t *testing.T) {
	fields := []codec.FieldDescriptor{
		must(codec.CharacterField("NAME", 10)),
		must(codec.NumericField("AGE", 3, 0)),
	}

	t.Run("empty file", func(t *testing.T) {
		tbl, err := table.New(fields, table.Options{})
		require.NoError(t, err)
		_, err = appendCSV(tbl, csv.NewReader(strings.NewReader("")))
		assert.Error(t, err)
	})

	t.Run("unknown column", func(t *testing.T) {
		tbl, err := table.New(fields, table.Options{})
		require.NoError(t, err)
		_, err = appendCSV(tbl, csv.NewReader(strings.NewReader("NAME,SALARY\nJohn,100\n")))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SALARY")
	})

	t.Run("bad cell aborts with earlier rows kept", func(t *testing.T) {
		tbl, err := table.New(fields, table.Options{})
		require.NoError(t, err)
		input := "NAME,AGE\nJohn,25\nJane,banana\n"
		added, err := appendCSV(tbl, csv.NewReader(strings.NewReader(input)))
		assert.Error(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("overflow aborts", func(t *testing.T) {
		tbl, err := table.New(fields, table.Options{})
		require.NoError(t, err)
		input := "NAME,AGE\nJohn,12345\n"
		_, err = appendCSV(tbl, csv.NewReader(strings.NewReader(input)))
		assert.Error(t, err)
		assert.ErrorIs(t, err, codec.ErrValueTooLong)
	})
}
