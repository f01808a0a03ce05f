package codec

import "errors"

// On-disk layout constants of the DBF format.
const (
	headerSize     = 32 // fixed header prefix
	descriptorSize = 32 // one field descriptor entry
	fieldNameSize  = 11 // name bytes inside a descriptor, null-padded

	// HeaderTerminator closes the field descriptor array.
	HeaderTerminator byte = 0x0D
	// EndOfData marks the end of record data in a well-formed file.
	EndOfData byte = 0x1A

	flagActive  byte = 0x20 // deletion flag of a live record
	flagDeleted byte = 0x2A // deletion flag of a soft-deleted record
)

// Errors reported by the codec. Callers match them with errors.Is; the
// codec wraps each occurrence with the field name and byte offset.
var (
	ErrInvalidFieldDescriptor = errors.New("invalid field descriptor")
	ErrMalformedHeader        = errors.New("malformed header")
	ErrUnsupportedVersion     = errors.New("unsupported dbf version")
	ErrMalformedRecord        = errors.New("malformed record")
	ErrNumericParse           = errors.New("numeric field parse failed")
	ErrInvalidDate            = errors.New("invalid date field")
	ErrValueTooLong           = errors.New("value too long for field")
	ErrValueType              = errors.New("value type mismatch")
	ErrUnknownField           = errors.New("unknown field")
)

// IsValueError reports whether err is a per-value decode error
// (ErrNumericParse or ErrInvalidDate). Such errors spoil one record but
// leave the stream well-framed, so a streaming scan may skip the record
// and continue. Structural errors (ErrMalformedRecord, ErrMalformedHeader)
// are never value errors.
func IsValueError(err error) bool {
	return errors.Is(err, ErrNumericParse) || errors.Is(err, ErrInvalidDate)
}

// TextDecoder converts Character field bytes from the table's codepage into
// UTF-8. Implementations live outside the codec; see the codepage package.
type TextDecoder interface {
	Decode(in []byte) ([]byte, error)
}

// TextEncoder converts UTF-8 text into the table's codepage for storage in
// Character fields.
type TextEncoder interface {
	Encode(in []byte) ([]byte, error)
}

// MemoPointer is the raw block number a Memo field stores. The codec only
// carries the pointer; resolving it to memo text requires the companion
// memo file (see MemoResolver and the memo package).
type MemoPointer int64

// MemoResolver resolves memo block pointers against a companion memo file.
type MemoResolver interface {
	Resolve(ptr MemoPointer) ([]byte, error)
}
