package codec

import (
	"github.com/pkg/errors"
)

// Record is one row of a table: an ordered value per field plus the
// soft-deletion flag. Values are name-addressable through Get and Set;
// their Go types per field type are
//
//	Character            string
//	Numeric, decimals=0  int64
//	Numeric, decimals>0  float64
//	Float                float64
//	Logical              bool
//	Date                 time.Time (midnight UTC)
//	Memo                 MemoPointer
//	no value             nil
type Record struct {
	Deleted bool

	values []interface{}
	codec  *RecordCodec
}

// Get returns the value stored under the named field.
func (r *Record) Get(name string) (interface{}, error) {
	i, ok := r.codec.byName[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownField, "%q", name)
	}
	return r.values[i], nil
}

// Set stores a value under the named field. The value's type is checked
// when the record is encoded.
func (r *Record) Set(name string, v interface{}) error {
	i, ok := r.codec.byName[name]
	if !ok {
		return errors.Wrapf(ErrUnknownField, "%q", name)
	}
	r.values[i] = v
	return nil
}

// Value returns the value at field position i.
func (r *Record) Value(i int) interface{} {
	return r.values[i]
}

// Values returns a copy of the record's values in field order.
func (r *Record) Values() []interface{} {
	out := make([]interface{}, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.values)
}

// Fields returns the descriptors this record was built against.
func (r *Record) Fields() []FieldDescriptor {
	return r.codec.fields
}

// Copy returns an independent copy of the record.
func (r *Record) Copy() *Record {
	out := r.codec.NewRecord()
	out.Deleted = r.Deleted
	copy(out.values, r.values)
	return out
}

// CodecOptions carries the optional text collaborators a RecordCodec uses
// for Character data. Either may be nil, in which case Character bytes pass
// through untranslated.
type CodecOptions struct {
	Decoder TextDecoder
	Encoder TextEncoder
}

// RecordCodec serializes and deserializes fixed-width record rows for one
// field list. Displacements are computed once at construction; every decode
// and encode slices the row buffer by them.
type RecordCodec struct {
	fields        []FieldDescriptor
	displacements []int
	byName        map[string]int
	recordLength  int
	opts          CodecOptions
}

// NewRecordCodec validates the field list and precomputes the row layout.
func NewRecordCodec(fields []FieldDescriptor, opts CodecOptions) (*RecordCodec, error) {
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(fields))
	for i, fd := range fields {
		byName[fd.Name] = i
	}
	return &RecordCodec{
		fields:        fields,
		displacements: Displacements(fields),
		byName:        byName,
		recordLength:  RecordLength(fields),
		opts:          opts,
	}, nil
}

// Fields returns the field list the codec was built from.
func (c *RecordCodec) Fields() []FieldDescriptor {
	return c.fields
}

// RecordLength returns the byte width of one encoded row.
func (c *RecordCodec) RecordLength() int {
	return c.recordLength
}

// NewRecord returns an empty record (every value nil, not deleted) bound to
// the codec's field list.
func (c *RecordCodec) NewRecord() *Record {
	return &Record{
		values: make([]interface{}, len(c.fields)),
		codec:  c,
	}
}

// RecordFromValues builds a record from name-keyed values. Names absent
// from the map are left as the no-value marker; names the field list does
// not carry fail with ErrUnknownField. Value types are checked on encode.
func (c *RecordCodec) RecordFromValues(values map[string]interface{}) (*Record, error) {
	r := c.NewRecord()
	for name, v := range values {
		if err := r.Set(name, v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Decode deserializes one row. The first byte is the deletion flag (0x20
// active, 0x2A deleted; anything else is ErrMalformedRecord). Remaining
// bytes are sliced per field displacement and converted per type. Value
// conversion failures (ErrNumericParse, ErrInvalidDate) carry the field
// name and offset; they spoil this record only.
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	if len(data) != c.recordLength {
		return nil, errors.Wrapf(ErrMalformedRecord, "row is %d bytes, want %d", len(data), c.recordLength)
	}

	r := c.NewRecord()
	switch data[0] {
	case flagActive:
		r.Deleted = false
	case flagDeleted:
		r.Deleted = true
	default:
		return nil, errors.Wrapf(ErrMalformedRecord, "deletion flag 0x%02X", data[0])
	}

	for i, fd := range c.fields {
		off := c.displacements[i]
		raw := data[off : off+int(fd.Length)]
		v, err := decodeValue(fd, raw, c.opts.Decoder)
		if err != nil {
			return nil, errors.Wrapf(err, "offset %d", off)
		}
		r.values[i] = v
	}
	return r, nil
}

// Encode serializes a record into exactly RecordLength bytes: deletion flag
// first, then each value padded to its field's width. Character overflow is
// truncated silently; Numeric, Float, Date, Logical and Memo overflow fails
// with ErrValueTooLong.
func (c *RecordCodec) Encode(r *Record) ([]byte, error) {
	if len(r.values) != len(c.fields) {
		return nil, errors.Wrapf(ErrValueType, "record carries %d values, field list has %d",
			len(r.values), len(c.fields))
	}

	buf := make([]byte, c.recordLength)
	buf[0] = flagActive
	if r.Deleted {
		buf[0] = flagDeleted
	}
	for i, fd := range c.fields {
		out, err := c.EncodeValue(fd, r.values[i])
		if err != nil {
			return nil, err
		}
		copy(buf[c.displacements[i]:], out)
	}
	return buf, nil
}

// EncodeValue renders a single value for one field, applying the same
// padding and overflow rules as Encode. The table engine reuses it to
// validate values before accepting a mutation.
func (c *RecordCodec) EncodeValue(fd FieldDescriptor, v interface{}) ([]byte, error) {
	return encodeValue(fd, v, c.opts.Encoder)
}
