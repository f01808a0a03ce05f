// Package codec implements the binary reader/writer engine for the DBF
// (dBASE table file) format: the fixed 32-byte header, the field descriptor
// array and the fixed-width record rows.
//
// # File Layout
//
// A DBF file is laid out as
//
//	[Header(32)][FieldDescriptor(32)]...[0x0D][Record(recordLength)]...[0x1A]
//
// Header fields (all integers little-endian):
//   - byte 0: version/type
//   - bytes 1-3: last update date as raw YY/MM/DD bytes (YY since 1900)
//   - bytes 4-7: record count, uint32
//   - bytes 8-9: header length, uint16
//   - bytes 10-11: record length, uint16
//   - bytes 12-31: reserved/codepage/driver bytes, preserved verbatim
//
// Each descriptor entry is name[11] null-padded, type[1], reserved[4],
// length[1], decimal count[1], reserved[14]. Two invariants tie the header
// to the descriptors: headerLength = 32 + 32*fieldCount + 1, and
// recordLength = 1 + the sum of all field lengths. EncodeHeader recomputes
// both from the field list it is handed, so a mutated field list can never
// leave stale lengths behind.
//
// # Records
//
// A record row is always recordLength bytes: one deletion flag byte (0x20
// active, 0x2A deleted) followed by each field's value padded to its
// declared width. Character data is left-justified and space-padded;
// Numeric, Float and Memo values are ASCII numerals, right-justified and
// space-padded; Logical is a single byte; Date is eight ASCII digits
// YYYYMMDD. An all-blank field decodes to nil, the explicit no-value
// marker, never to a zero value.
//
// All decoding and encoding slices row buffers by precomputed field
// displacements rather than overlaying structs, keeping the codec portable
// across byte-order and alignment assumptions.
//
// # Usage
//
//	fields := []codec.FieldDescriptor{...}
//	rc, err := codec.NewRecordCodec(fields, codec.CodecOptions{})
//	if err != nil {
//	    return err
//	}
//
//	rec, err := rc.Decode(row)
//	if err != nil {
//	    return err
//	}
//	name, _ := rec.Get("NAME")
//
// # Error Handling
//
// Structural damage (ErrMalformedHeader, ErrMalformedRecord,
// ErrUnsupportedVersion) aborts the decode of the stream or row entirely.
// Per-value failures (ErrNumericParse, ErrInvalidDate) spoil one record
// without corrupting its siblings; IsValueError lets a streaming caller
// skip the bad row and continue. Every error is wrapped with the field name
// and byte offset it was detected at.
//
// # Collaborators
//
// The codec stays deliberately small. Character text is translated through
// the optional TextDecoder/TextEncoder pair (see the codepage package), and
// Memo fields decode to their raw block pointer for a MemoResolver (see the
// memo package) to chase. Neither collaborator is required for structural
// round-trips.
//
// # Thread Safety
//
// A RecordCodec is immutable after construction and safe for concurrent
// use. Records are plain mutable values owned by one caller at a time.
package codec
