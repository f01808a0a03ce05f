package codec

import (
	"errors"
	"testing"
)

func TestNewFieldDescriptor_Valid(t *testing.T) {
	testCases := []struct {
		name     string
		field    string
		ftype    FieldType
		length   uint8
		decimals uint8
	}{
		{
			name:   "character field",
			field:  "NAME",
			ftype:  Character,
			length: 10,
		},
		{
			name:   "max width character field",
			field:  "NOTES",
			ftype:  Character,
			length: 254,
		},
		{
			name:   "integer numeric field",
			field:  "AGE",
			ftype:  Numeric,
			length: 3,
		},
		{
			name:     "decimal numeric field",
			field:    "PRICE",
			ftype:    Numeric,
			length:   10,
			decimals: 2,
		},
		{
			name:     "float field",
			field:    "RATIO",
			ftype:    Float,
			length:   12,
			decimals: 6,
		},
		{
			name:   "logical field",
			field:  "ACTIVE",
			ftype:  Logical,
			length: 1,
		},
		{
			name:   "date field",
			field:  "BIRTH",
			ftype:  Date,
			length: 8,
		},
		{
			name:   "memo field",
			field:  "COMMENT",
			ftype:  Memo,
			length: 10,
		},
		{
			name:   "ten byte name with digits and underscore",
			field:  "COL_2020_9",
			ftype:  Character,
			length: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fd, err := NewFieldDescriptor(tc.field, tc.ftype, tc.length, tc.decimals)
			if err != nil {
				t.Fatalf("NewFieldDescriptor failed: %v", err)
			}
			if fd.Name != tc.field {
				t.Errorf("Name mismatch: got %q, want %q", fd.Name, tc.field)
			}
			if fd.Type != tc.ftype {
				t.Errorf("Type mismatch: got %v, want %v", fd.Type, tc.ftype)
			}
			if fd.Length != tc.length {
				t.Errorf("Length mismatch: got %d, want %d", fd.Length, tc.length)
			}
			if fd.DecimalCount != tc.decimals {
				t.Errorf("DecimalCount mismatch: got %d, want %d", fd.DecimalCount, tc.decimals)
			}
		})
	}
}

func TestNewFieldDescriptor_Invalid(t *testing.T) {
	testCases := []struct {
		name     string
		field    string
		ftype    FieldType
		length   uint8
		decimals uint8
	}{
		{
			name:   "empty name",
			field:  "",
			ftype:  Character,
			length: 10,
		},
		{
			name:   "name longer than ten bytes",
			field:  "TOOLONGNAME",
			ftype:  Character,
			length: 10,
		},
		{
			name:   "lowercase name",
			field:  "name",
			ftype:  Character,
			length: 10,
		},
		{
			name:   "name starting with digit",
			field:  "1NAME",
			ftype:  Character,
			length: 10,
		},
		{
			name:   "unknown type tag",
			field:  "WHEN",
			ftype:  FieldType('T'),
			length: 8,
		},
		{
			name:   "zero length",
			field:  "NAME",
			ftype:  Character,
			length: 0,
		},
		{
			name:     "character with decimals",
			field:    "NAME",
			ftype:    Character,
			length:   10,
			decimals: 2,
		},
		{
			name:   "character wider than 254",
			field:  "NOTES",
			ftype:  Character,
			length: 255,
		},
		{
			name:   "numeric longer than twenty",
			field:  "BIG",
			ftype:  Numeric,
			length: 21,
		},
		{
			name:     "numeric with more than fifteen decimals",
			field:    "TINY",
			ftype:    Numeric,
			length:   20,
			decimals: 16,
		},
		{
			name:     "decimals leave no room for the integer part",
			field:    "FRAC",
			ftype:    Numeric,
			length:   4,
			decimals: 3,
		},
		{
			name:   "logical wider than one byte",
			field:  "ACTIVE",
			ftype:  Logical,
			length: 2,
		},
		{
			name:   "date not eight bytes",
			field:  "BIRTH",
			ftype:  Date,
			length: 10,
		},
		{
			name:   "memo not ten bytes",
			field:  "COMMENT",
			ftype:  Memo,
			length: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFieldDescriptor(tc.field, tc.ftype, tc.length, tc.decimals)
			if err == nil {
				t.Fatalf("Expected NewFieldDescriptor to fail for %s", tc.name)
			}
			if !errors.Is(err, ErrInvalidFieldDescriptor) {
				t.Errorf("Expected ErrInvalidFieldDescriptor, got %v", err)
			}
		})
	}
}

func TestFieldDescriptor_ShapeAcceptsForeignNames(t *testing.T) {
	// Files written by other tools carry names the strict dBASE convention
	// rejects. Shape validation only requires non-empty and at most ten
	// bytes, so such tables still decode and re-encode.
	fd := FieldDescriptor{Name: "lower_x", Type: Character, Length: 5}

	if err := fd.validateShape(); err != nil {
		t.Errorf("validateShape rejected foreign name: %v", err)
	}
	if err := fd.Validate(); err == nil {
		t.Error("Expected strict Validate to reject lowercase name, but it passed")
	}
}

func TestValidateFields(t *testing.T) {
	name, _ := CharacterField("NAME", 10)
	age, _ := NumericField("AGE", 3, 0)
	dupe, _ := CharacterField("NAME", 5)

	t.Run("valid field list passes", func(t *testing.T) {
		if err := ValidateFields([]FieldDescriptor{name, age}); err != nil {
			t.Errorf("ValidateFields failed: %v", err)
		}
	})

	t.Run("empty field list fails", func(t *testing.T) {
		err := ValidateFields(nil)
		if !errors.Is(err, ErrInvalidFieldDescriptor) {
			t.Errorf("Expected ErrInvalidFieldDescriptor, got %v", err)
		}
	})

	t.Run("duplicate names fail", func(t *testing.T) {
		err := ValidateFields([]FieldDescriptor{name, age, dupe})
		if !errors.Is(err, ErrInvalidFieldDescriptor) {
			t.Errorf("Expected ErrInvalidFieldDescriptor, got %v", err)
		}
	})

	t.Run("bad shape fails", func(t *testing.T) {
		bad := FieldDescriptor{Name: "AGE", Type: Numeric, Length: 21}
		err := ValidateFields([]FieldDescriptor{name, bad})
		if !errors.Is(err, ErrInvalidFieldDescriptor) {
			t.Errorf("Expected ErrInvalidFieldDescriptor, got %v", err)
		}
	})
}

func TestRecordLengthAndDisplacements(t *testing.T) {
	name, _ := CharacterField("NAME", 10)
	age, _ := NumericField("AGE", 3, 0)
	birth, _ := DateField("BIRTH")
	fields := []FieldDescriptor{name, age, birth}

	// Deletion flag + 10 + 3 + 8.
	if got := RecordLength(fields); got != 22 {
		t.Errorf("RecordLength mismatch: got %d, want 22", got)
	}

	offs := Displacements(fields)
	want := []int{1, 11, 14}
	if len(offs) != len(want) {
		t.Fatalf("Displacements length mismatch: got %d, want %d", len(offs), len(want))
	}
	for i := range want {
		if offs[i] != want[i] {
			t.Errorf("Displacement %d mismatch: got %d, want %d", i, offs[i], want[i])
		}
	}
}

func TestFieldType_String(t *testing.T) {
	testCases := []struct {
		ftype FieldType
		want  string
	}{
		{Character, "Character"},
		{Numeric, "Numeric"},
		{Float, "Float"},
		{Logical, "Logical"},
		{Date, "Date"},
		{Memo, "Memo"},
		{FieldType('X'), "FieldType(X)"},
	}

	for _, tc := range testCases {
		if got := tc.ftype.String(); got != tc.want {
			t.Errorf("String mismatch for %q: got %q, want %q", byte(tc.ftype), got, tc.want)
		}
	}
}
