package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/pkg/errors"
)

// TableHeader is the fixed 32-byte prefix of a DBF file. The last-update
// date is stored as raw bytes (year counted from 1900). Bytes 12-31 are
// reserved, codepage and driver bytes that round-trip verbatim; the
// language driver byte at offset 29 has accessors.
type TableHeader struct {
	Version      byte
	UpdatedYear  byte // years since 1900
	UpdatedMonth byte
	UpdatedDay   byte
	RecordCount  uint32
	HeaderLength uint16
	RecordLength uint16

	reserved [20]byte // bytes 12-31
}

const languageDriverOffset = 29 - 12 // within the reserved run

// Version bytes of the dialects the codec recognizes. Visual FoxPro
// variants are excluded: their headers carry a backlink block that breaks
// the 32+32n+1 length invariant.
var versionNames = map[byte]string{
	0x02: "FoxBASE",
	0x03: "dBASE III PLUS, no memo",
	0x04: "dBASE IV, no memo",
	0x05: "dBASE V, no memo",
	0x43: "dBASE IV SQL table, no memo",
	0x63: "dBASE IV SQL system, no memo",
	0x83: "dBASE III PLUS, with memo",
	0x8B: "dBASE IV, with memo",
	0xCB: "dBASE IV SQL table, with memo",
	0xF5: "FoxPro 2.x, with memo",
	0xFB: "FoxBASE, with memo",
}

// VersionName returns the dialect name for a version byte and whether the
// codec recognizes it.
func VersionName(version byte) (string, bool) {
	name, ok := versionNames[version]
	return name, ok
}

// LanguageDriver returns the codepage marker byte at header offset 29.
func (h *TableHeader) LanguageDriver() byte {
	return h.reserved[languageDriverOffset]
}

// SetLanguageDriver stores the codepage marker byte at header offset 29.
func (h *TableHeader) SetLanguageDriver(driver byte) {
	h.reserved[languageDriverOffset] = driver
}

// LastUpdate interprets the raw update-date bytes. The zero time is
// returned when the file never recorded a date.
func (h *TableHeader) LastUpdate() time.Time {
	if h.UpdatedMonth == 0 || h.UpdatedDay == 0 {
		return time.Time{}
	}
	return time.Date(1900+int(h.UpdatedYear), time.Month(h.UpdatedMonth), int(h.UpdatedDay), 0, 0, 0, 0, time.UTC)
}

// SetLastUpdate stores t into the raw update-date bytes.
func (h *TableHeader) SetLastUpdate(t time.Time) {
	year := t.Year() - 1900
	if year < 0 {
		year = 0
	}
	if year > 255 {
		year = 255
	}
	h.UpdatedYear = byte(year)
	h.UpdatedMonth = byte(t.Month())
	h.UpdatedDay = byte(t.Day())
}

// FieldCount derives the number of descriptor entries from HeaderLength.
func (h *TableHeader) FieldCount() int {
	if h.HeaderLength < headerSize+1 {
		return 0
	}
	return (int(h.HeaderLength) - headerSize - 1) / descriptorSize
}

// ReadHeader decodes the fixed prefix and the field descriptor array from
// r, consuming exactly HeaderLength bytes and leaving the stream positioned
// at the first record. It fails with ErrUnsupportedVersion for unknown
// dialects and ErrMalformedHeader when the declared lengths disagree with
// the descriptors actually present.
func ReadHeader(r io.Reader) (*TableHeader, []FieldDescriptor, error) {
	prefix := make([]byte, headerSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil, errors.Wrap(ErrMalformedHeader, "truncated header prefix")
		}
		return nil, nil, errors.Wrap(err, "read header prefix")
	}

	h := &TableHeader{
		Version:      prefix[0],
		UpdatedYear:  prefix[1],
		UpdatedMonth: prefix[2],
		UpdatedDay:   prefix[3],
		RecordCount:  binary.LittleEndian.Uint32(prefix[4:8]),
		HeaderLength: binary.LittleEndian.Uint16(prefix[8:10]),
		RecordLength: binary.LittleEndian.Uint16(prefix[10:12]),
	}
	copy(h.reserved[:], prefix[12:32])

	if _, ok := versionNames[h.Version]; !ok {
		return nil, nil, errors.Wrapf(ErrUnsupportedVersion, "version byte 0x%02X", h.Version)
	}

	var fields []FieldDescriptor
	entry := make([]byte, descriptorSize)
	for {
		if _, err := io.ReadFull(r, entry[:1]); err != nil {
			return nil, nil, errors.Wrap(ErrMalformedHeader, "descriptor array has no terminator")
		}
		if entry[0] == HeaderTerminator {
			break
		}
		if _, err := io.ReadFull(r, entry[1:]); err != nil {
			return nil, nil, errors.Wrapf(ErrMalformedHeader, "truncated descriptor %d", len(fields))
		}
		fd, err := fieldFromDescriptor(entry)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrMalformedHeader, "descriptor %d at offset %d: %v",
				len(fields), headerSize+len(fields)*descriptorSize, err)
		}
		fields = append(fields, fd)
	}

	wantHeader := headerSize + descriptorSize*len(fields) + 1
	if int(h.HeaderLength) != wantHeader {
		return nil, nil, errors.Wrapf(ErrMalformedHeader,
			"header length %d inconsistent with %d fields (want %d)", h.HeaderLength, len(fields), wantHeader)
	}
	if int(h.RecordLength) != RecordLength(fields) {
		return nil, nil, errors.Wrapf(ErrMalformedHeader,
			"record length %d inconsistent with field widths (want %d)", h.RecordLength, RecordLength(fields))
	}
	if err := ValidateFields(fields); err != nil {
		return nil, nil, errors.Wrapf(ErrMalformedHeader, "descriptor array: %v", err)
	}
	return h, fields, nil
}

// DecodeHeader decodes a header from an in-memory buffer.
func DecodeHeader(data []byte) (*TableHeader, []FieldDescriptor, error) {
	return ReadHeader(bytes.NewReader(data))
}

// EncodeHeader serializes the header and descriptor array. HeaderLength and
// RecordLength are recomputed from fields and written back into h, so the
// encoded form is consistent even after the field list was mutated.
func EncodeHeader(h *TableHeader, fields []FieldDescriptor) ([]byte, error) {
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}

	h.HeaderLength = uint16(headerSize + descriptorSize*len(fields) + 1)
	h.RecordLength = uint16(RecordLength(fields))

	buf := make([]byte, h.HeaderLength)
	buf[0] = h.Version
	buf[1] = h.UpdatedYear
	buf[2] = h.UpdatedMonth
	buf[3] = h.UpdatedDay
	binary.LittleEndian.PutUint32(buf[4:8], h.RecordCount)
	binary.LittleEndian.PutUint16(buf[8:10], h.HeaderLength)
	binary.LittleEndian.PutUint16(buf[10:12], h.RecordLength)
	copy(buf[12:32], h.reserved[:])

	pos := headerSize
	for _, fd := range fields {
		encodeDescriptor(buf[pos:pos+descriptorSize], fd)
		pos += descriptorSize
	}
	buf[pos] = HeaderTerminator
	return buf, nil
}

// fieldFromDescriptor decodes one 32-byte descriptor entry:
// name[11] null-padded, type[1], reserved[4], length[1], decimals[1],
// reserved[14].
func fieldFromDescriptor(entry []byte) (FieldDescriptor, error) {
	name := entry[:fieldNameSize]
	if i := bytes.IndexByte(name, 0x00); i >= 0 {
		name = name[:i]
	}

	fd := FieldDescriptor{
		Name:         string(name),
		Type:         FieldType(entry[11]),
		Length:       entry[16],
		DecimalCount: entry[17],
	}
	copy(fd.reserved1[:], entry[12:16])
	copy(fd.reserved2[:], entry[18:32])

	if err := fd.validateShape(); err != nil {
		return FieldDescriptor{}, err
	}
	return fd, nil
}

func encodeDescriptor(entry []byte, fd FieldDescriptor) {
	copy(entry[:fieldNameSize], fd.Name) // remainder stays null-padded
	entry[11] = byte(fd.Type)
	copy(entry[12:16], fd.reserved1[:])
	entry[16] = fd.Length
	entry[17] = fd.DecimalCount
	copy(entry[18:32], fd.reserved2[:])
}
