package codec

import (
	"bytes"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// decodeValue converts one field's raw bytes into its Go value. Blank
// Numeric, Float, Date, Logical and Memo fields decode to nil, the explicit
// no-value marker, never to a zero value.
func decodeValue(fd FieldDescriptor, raw []byte, dec TextDecoder) (interface{}, error) {
	switch fd.Type {
	case Character:
		return decodeCharacter(fd, raw, dec)
	case Numeric:
		return decodeNumeric(fd, raw)
	case Float:
		return decodeFloat(fd, raw)
	case Logical:
		return decodeLogical(raw), nil
	case Date:
		return decodeDate(fd, raw)
	case Memo:
		return decodeMemo(fd, raw)
	}
	return nil, errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: unknown type %q", fd.Name, byte(fd.Type))
}

func decodeCharacter(fd FieldDescriptor, raw []byte, dec TextDecoder) (interface{}, error) {
	trimmed := bytes.TrimRight(raw, " ")
	if dec == nil {
		return string(trimmed), nil
	}
	out, err := dec.Decode(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q: decode text", fd.Name)
	}
	return string(out), nil
}

func decodeNumeric(fd FieldDescriptor, raw []byte) (interface{}, error) {
	s := string(bytes.TrimSpace(raw))
	if s == "" {
		return nil, nil
	}
	if fd.DecimalCount == 0 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrNumericParse, "field %q: %q", fd.Name, string(raw))
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrNumericParse, "field %q: %q", fd.Name, string(raw))
	}
	return f, nil
}

func decodeFloat(fd FieldDescriptor, raw []byte) (interface{}, error) {
	s := string(bytes.TrimSpace(raw))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrNumericParse, "field %q: %q", fd.Name, string(raw))
	}
	return f, nil
}

// decodeLogical maps T/t/Y/y to true and F/f/N/n to false. '?' and space
// are the no-value marker; any other byte also decodes to nil rather than
// guessing.
func decodeLogical(raw []byte) interface{} {
	switch raw[0] {
	case 'T', 't', 'Y', 'y':
		return true
	case 'F', 'f', 'N', 'n':
		return false
	}
	return nil
}

func decodeDate(fd FieldDescriptor, raw []byte) (interface{}, error) {
	if isBlank(raw) {
		return nil, nil
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return nil, errors.Wrapf(ErrInvalidDate, "field %q: %q", fd.Name, string(raw))
		}
	}
	t, err := time.Parse("20060102", string(raw))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDate, "field %q: %q", fd.Name, string(raw))
	}
	return t, nil
}

func decodeMemo(fd FieldDescriptor, raw []byte) (interface{}, error) {
	s := string(bytes.TrimSpace(raw))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrNumericParse, "field %q: memo pointer %q", fd.Name, string(raw))
	}
	return MemoPointer(n), nil
}

// encodeValue renders one Go value into the field's exact byte width. A nil
// value becomes an all-blank field for every type except Logical, which
// stores '?'. Character data is left-justified and silently truncated when
// over-long; every other type rejects overflow with ErrValueTooLong.
func encodeValue(fd FieldDescriptor, v interface{}, enc TextEncoder) ([]byte, error) {
	if v == nil {
		out := blankField(fd.Length)
		if fd.Type == Logical {
			out[0] = '?'
		}
		return out, nil
	}
	switch fd.Type {
	case Character:
		return encodeCharacter(fd, v, enc)
	case Numeric:
		return encodeNumeric(fd, v)
	case Float:
		return encodeFloat(fd, v)
	case Logical:
		return encodeLogical(fd, v)
	case Date:
		return encodeDate(fd, v)
	case Memo:
		return encodeMemo(fd, v)
	}
	return nil, errors.Wrapf(ErrInvalidFieldDescriptor, "field %q: unknown type %q", fd.Name, byte(fd.Type))
}

func encodeCharacter(fd FieldDescriptor, v interface{}, enc TextEncoder) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.Wrapf(ErrValueType, "field %q: want string, got %T", fd.Name, v)
	}
	raw := []byte(s)
	if enc != nil {
		out, err := enc.Encode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q: encode text", fd.Name)
		}
		raw = out
	}
	if len(raw) > int(fd.Length) {
		raw = raw[:fd.Length] // character overflow truncates silently
	}
	return padRight(raw, fd.Length), nil
}

func encodeNumeric(fd FieldDescriptor, v interface{}) ([]byte, error) {
	if fd.DecimalCount > 0 {
		return encodeFloat(fd, v)
	}
	n, err := toInt64(fd, v)
	if err != nil {
		return nil, err
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > int(fd.Length) {
		return nil, errors.Wrapf(ErrValueTooLong, "field %q: %s needs %d bytes, field holds %d",
			fd.Name, s, len(s), fd.Length)
	}
	return padLeft([]byte(s), fd.Length), nil
}

func encodeFloat(fd FieldDescriptor, v interface{}) ([]byte, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	default:
		return nil, errors.Wrapf(ErrValueType, "field %q: want float64, got %T", fd.Name, v)
	}
	s := strconv.FormatFloat(f, 'f', int(fd.DecimalCount), 64)
	if len(s) > int(fd.Length) {
		return nil, errors.Wrapf(ErrValueTooLong, "field %q: %s needs %d bytes, field holds %d",
			fd.Name, s, len(s), fd.Length)
	}
	return padLeft([]byte(s), fd.Length), nil
}

func encodeLogical(fd FieldDescriptor, v interface{}) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, errors.Wrapf(ErrValueType, "field %q: want bool, got %T", fd.Name, v)
	}
	if b {
		return []byte{'T'}, nil
	}
	return []byte{'F'}, nil
}

func encodeDate(fd FieldDescriptor, v interface{}) ([]byte, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, errors.Wrapf(ErrValueType, "field %q: want time.Time, got %T", fd.Name, v)
	}
	if t.Year() < 0 || t.Year() > 9999 {
		return nil, errors.Wrapf(ErrValueTooLong, "field %q: year %d does not fit YYYYMMDD", fd.Name, t.Year())
	}
	return []byte(t.Format("20060102")), nil
}

func encodeMemo(fd FieldDescriptor, v interface{}) ([]byte, error) {
	var ptr int64
	switch x := v.(type) {
	case MemoPointer:
		ptr = int64(x)
	case int:
		ptr = int64(x)
	case int64:
		ptr = x
	default:
		return nil, errors.Wrapf(ErrValueType, "field %q: want MemoPointer, got %T", fd.Name, v)
	}
	if ptr < 0 {
		return nil, errors.Wrapf(ErrValueType, "field %q: negative memo pointer %d", fd.Name, ptr)
	}
	s := strconv.FormatInt(ptr, 10)
	if len(s) > int(fd.Length) {
		return nil, errors.Wrapf(ErrValueTooLong, "field %q: memo pointer %s needs %d bytes, field holds %d",
			fd.Name, s, len(s), fd.Length)
	}
	return padLeft([]byte(s), fd.Length), nil
}

func toInt64(fd FieldDescriptor, v interface{}) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	}
	return 0, errors.Wrapf(ErrValueType, "field %q: want int64, got %T", fd.Name, v)
}

func isBlank(raw []byte) bool {
	for _, c := range raw {
		if c != ' ' {
			return false
		}
	}
	return true
}

func blankField(length uint8) []byte {
	return bytes.Repeat([]byte{' '}, int(length))
}

// padLeft right-justifies numerals inside the field width.
func padLeft(s []byte, length uint8) []byte {
	out := blankField(length)
	copy(out[int(length)-len(s):], s)
	return out
}

// padRight left-justifies text inside the field width.
func padRight(s []byte, length uint8) []byte {
	out := blankField(length)
	copy(out, s)
	return out
}
