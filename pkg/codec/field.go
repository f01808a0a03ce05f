package codec

import (
	"github.com/pkg/errors"
)

// FieldType is the single-byte type tag of a DBF column.
type FieldType byte

// Field types of the classic dBASE dialects.
const (
	Character FieldType = 'C'
	Numeric   FieldType = 'N'
	Float     FieldType = 'F'
	Logical   FieldType = 'L'
	Date      FieldType = 'D'
	Memo      FieldType = 'M'
)

func (t FieldType) String() string {
	switch t {
	case Character:
		return "Character"
	case Numeric:
		return "Numeric"
	case Float:
		return "Float"
	case Logical:
		return "Logical"
	case Date:
		return "Date"
	case Memo:
		return "Memo"
	}
	return "FieldType(" + string(byte(t)) + ")"
}

func (t FieldType) known() bool {
	switch t {
	case Character, Numeric, Float, Logical, Date, Memo:
		return true
	}
	return false
}

// FieldDescriptor describes one column of a table: name, type tag, byte
// width inside the fixed record and decimal count. The two reserved byte
// runs of the on-disk entry round-trip verbatim through decode and encode.
type FieldDescriptor struct {
	Name         string
	Type         FieldType
	Length       uint8
	DecimalCount uint8

	reserved1 [4]byte
	reserved2 [14]byte
}

// NewFieldDescriptor builds a validated descriptor. It fails with
// ErrInvalidFieldDescriptor when the name or the type/length/decimal
// combination is illegal.
func NewFieldDescriptor(name string, ftype FieldType, length, decimals uint8) (FieldDescriptor, error) {
	fd := FieldDescriptor{Name: name, Type: ftype, Length: length, DecimalCount: decimals}
	if err := fd.Validate(); err != nil {
		return FieldDescriptor{}, err
	}
	return fd, nil
}

// CharacterField builds a Character descriptor of the given width.
func CharacterField(name string, length uint8) (FieldDescriptor, error) {
	return NewFieldDescriptor(name, Character, length, 0)
}

// NumericField builds a Numeric descriptor. With decimals > 0 values decode
// as float64, otherwise as int64.
func NumericField(name string, length, decimals uint8) (FieldDescriptor, error) {
	return NewFieldDescriptor(name, Numeric, length, decimals)
}

// FloatField builds a Float descriptor; values always decode as float64.
func FloatField(name string, length, decimals uint8) (FieldDescriptor, error) {
	return NewFieldDescriptor(name, Float, length, decimals)
}

// LogicalField builds a Logical descriptor (always one byte wide).
func LogicalField(name string) (FieldDescriptor, error) {
	return NewFieldDescriptor(name, Logical, 1, 0)
}

// DateField builds a Date descriptor (always eight bytes, YYYYMMDD).
func DateField(name string) (FieldDescriptor, error) {
	return NewFieldDescriptor(name, Date, 8, 0)
}

// MemoField builds a Memo descriptor (ten bytes holding a block pointer).
func MemoField(name string) (FieldDescriptor, error) {
	return NewFieldDescriptor(name, Memo, 10, 0)
}

// Validate checks the descriptor against the per-type legality rules:
//
//	Character  length 1-254, decimals 0
//	Numeric    length 1-20, decimals 0-15 and <= length-2 when set
//	Float      same as Numeric
//	Logical    length 1, decimals 0
//	Date       length 8, decimals 0
//	Memo       length 10, decimals 0
//
// The name must follow the dBASE convention enforced by validateFieldName.
func (fd FieldDescriptor) Validate() error {
	if err := validateFieldName(fd.Name); err != nil {
		return err
	}
	return fd.validateShape()
}

// validateShape checks everything except the naming convention. Descriptors
// decoded from foreign files are held to this looser standard (their names
// only need to be non-empty and at most ten bytes), so a decoded table
// always re-encodes.
func (fd FieldDescriptor) validateShape() error {
	if fd.Name == "" {
		return errors.Wrap(ErrInvalidFieldDescriptor, "empty field name")
	}
	if len(fd.Name) > fieldNameSize-1 {
		return errors.Wrapf(ErrInvalidFieldDescriptor, "field name %q longer than 10 bytes", fd.Name)
	}
	if !fd.Type.known() {
		return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: unknown type %q", fd.Name, byte(fd.Type))
	}
	if fd.Length == 0 {
		return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: zero length", fd.Name)
	}
	switch fd.Type {
	case Character:
		if fd.Length > 254 {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: character length %d exceeds 254", fd.Name, fd.Length)
		}
		if fd.DecimalCount != 0 {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: character fields carry no decimals", fd.Name)
		}
	case Numeric, Float:
		if fd.Length > 20 {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: numeric length %d exceeds 20", fd.Name, fd.Length)
		}
		if fd.DecimalCount > 15 {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: decimal count %d exceeds 15", fd.Name, fd.DecimalCount)
		}
		// Room for the leading digit and the decimal point.
		if fd.DecimalCount > 0 && fd.DecimalCount > fd.Length-2 {
			return errors.Wrapf(ErrInvalidFieldDescriptor,
				"field %q: %d decimals do not fit in length %d", fd.Name, fd.DecimalCount, fd.Length)
		}
	case Logical:
		if fd.Length != 1 || fd.DecimalCount != 0 {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: logical fields are 1 byte, no decimals", fd.Name)
		}
	case Date:
		if fd.Length != 8 || fd.DecimalCount != 0 {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: date fields are 8 bytes, no decimals", fd.Name)
		}
	case Memo:
		if fd.Length != 10 || fd.DecimalCount != 0 {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: memo fields are 10 bytes, no decimals", fd.Name)
		}
	}
	return nil
}

// validateFieldName enforces the dBASE naming rule: at most ten bytes, an
// uppercase ASCII letter followed by uppercase letters, digits or
// underscores.
func validateFieldName(name string) error {
	if name == "" {
		return errors.Wrap(ErrInvalidFieldDescriptor, "empty field name")
	}
	if len(name) > fieldNameSize-1 {
		return errors.Wrapf(ErrInvalidFieldDescriptor, "field name %q longer than 10 bytes", name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return errors.Wrapf(ErrInvalidFieldDescriptor, "field name %q: illegal byte %q at %d", name, c, i)
		}
	}
	return nil
}

// ValidateFields checks the shape of every descriptor and rejects duplicate
// names. This is the validation the header and record codecs apply.
func ValidateFields(fields []FieldDescriptor) error {
	if len(fields) == 0 {
		return errors.Wrap(ErrInvalidFieldDescriptor, "table needs at least one field")
	}
	seen := make(map[string]struct{}, len(fields))
	for _, fd := range fields {
		if err := fd.validateShape(); err != nil {
			return err
		}
		if _, dup := seen[fd.Name]; dup {
			return errors.Wrapf(ErrInvalidFieldDescriptor, "duplicate field name %q", fd.Name)
		}
		seen[fd.Name] = struct{}{}
	}
	return nil
}

// RecordLength returns the byte width of one record row: the deletion flag
// byte plus the sum of all field lengths.
func RecordLength(fields []FieldDescriptor) int {
	n := 1
	for _, fd := range fields {
		n += int(fd.Length)
	}
	return n
}

// Displacements returns the byte offset of each field inside a record row.
// The deletion flag occupies offset 0, so the first field starts at 1.
func Displacements(fields []FieldDescriptor) []int {
	offs := make([]int, len(fields))
	pos := 1
	for i, fd := range fields {
		offs[i] = pos
		pos += int(fd.Length)
	}
	return offs
}
