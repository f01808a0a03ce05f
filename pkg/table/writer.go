package table

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ssargent/xbase/pkg/codec"
)

// Writer streams records into a table file: the header goes out up front,
// rows follow as they come, and Finalize seals the file with the
// end-of-data marker.
//
// The record count in the header prefix is only known after the last row.
// When the destination supports random access (io.WriterAt or
// io.WriteSeeker) Finalize patches the count and update date back into the
// prefix. Over a plain stream it instead verifies that the count declared
// up front matches the rows actually written, failing with
// ErrRecordCountMismatch when they disagree.
type Writer struct {
	dst       io.Writer
	buf       *bufio.Writer
	file      *os.File // owned when opened by path
	header    *codec.TableHeader
	fields    []codec.FieldDescriptor
	rc        *codec.RecordCodec
	count     uint32
	finalized bool
	config    WriterConfig
}

// NewWriter validates the field list, writes the header and readies the
// writer for rows. A nil header gets a fresh dBASE III PLUS header with a
// zero record count.
func NewWriter(w io.Writer, header *codec.TableHeader, fields []codec.FieldDescriptor, config WriterConfig) (*Writer, error) {
	if header == nil {
		header = defaultHeader(fields)
	}
	rc, err := codec.NewRecordCodec(fields, codec.CodecOptions{Encoder: config.Encoder})
	if err != nil {
		return nil, err
	}
	encoded, err := codec.EncodeHeader(header, fields)
	if err != nil {
		return nil, err
	}

	buf := bufio.NewWriter(w)
	if config.BufferSize > 0 {
		buf = bufio.NewWriterSize(w, config.BufferSize)
	}
	if _, err := buf.Write(encoded); err != nil {
		return nil, errors.Wrap(err, "write header")
	}

	return &Writer{
		dst:    w,
		buf:    buf,
		header: header,
		fields: fields,
		rc:     rc,
		config: config,
	}, nil
}

// OpenWriter creates (or truncates) a table file on disk. Close finalizes
// and releases it.
func OpenWriter(path string, header *codec.TableHeader, fields []codec.FieldDescriptor, config WriterConfig) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create table")
	}
	w, err := NewWriter(f, header, fields, config)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// defaultHeader builds the header for a fresh table: dBASE III PLUS,
// switching to the memo variant when the field list carries a Memo field.
func defaultHeader(fields []codec.FieldDescriptor) *codec.TableHeader {
	h := &codec.TableHeader{Version: 0x03}
	for _, fd := range fields {
		if fd.Type == codec.Memo {
			h.Version = 0x83
			break
		}
	}
	h.SetLastUpdate(time.Now())
	return h
}

// Header returns the header the writer stamped into the file.
func (w *Writer) Header() *codec.TableHeader {
	return w.header
}

// Fields returns the field descriptors of the table being written.
func (w *Writer) Fields() []codec.FieldDescriptor {
	return w.fields
}

// Count returns the number of rows written so far.
func (w *Writer) Count() uint32 {
	return w.count
}

// WriteRecord encodes one record and appends it to the file.
func (w *Writer) WriteRecord(r *codec.Record) error {
	if w.finalized {
		return ErrFinalized
	}
	row, err := w.rc.Encode(r)
	if err != nil {
		return errors.Wrapf(err, "record %d", w.count)
	}
	if _, err := w.buf.Write(row); err != nil {
		return errors.Wrapf(err, "write record %d", w.count)
	}
	w.count++
	return nil
}

// WriteValues builds a record from name-keyed values and appends it.
func (w *Writer) WriteValues(values map[string]interface{}) error {
	r, err := w.rc.RecordFromValues(values)
	if err != nil {
		return err
	}
	return w.WriteRecord(r)
}

// Finalize writes the end-of-data marker, flushes, and seals the header:
// the record count and update date are patched in place when the
// destination is random access, and verified against the declared count
// when it is not.
func (w *Writer) Finalize() error {
	if w.finalized {
		return ErrFinalized
	}
	if err := w.buf.WriteByte(codec.EndOfData); err != nil {
		return errors.Wrap(err, "write end marker")
	}
	if err := w.buf.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	w.finalized = true

	declared := w.header.RecordCount
	w.header.RecordCount = w.count
	w.header.SetLastUpdate(time.Now())

	switch dst := w.dst.(type) {
	case io.WriterAt:
		if err := w.patchAt(dst); err != nil {
			return err
		}
	case io.WriteSeeker:
		if err := w.patchSeek(dst); err != nil {
			return err
		}
	default:
		if declared != w.count {
			return errors.Wrapf(ErrRecordCountMismatch,
				"header declares %d records, wrote %d", declared, w.count)
		}
	}

	if w.file != nil {
		if err := w.file.Sync(); err != nil {
			return errors.Wrap(err, "sync table")
		}
	}
	return nil
}

// patchAt rewrites the record count (offset 4) and update date (offset 1).
func (w *Writer) patchAt(dst io.WriterAt) error {
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], w.header.RecordCount)
	if _, err := dst.WriteAt(count[:], 4); err != nil {
		return errors.Wrap(err, "patch record count")
	}
	date := []byte{w.header.UpdatedYear, w.header.UpdatedMonth, w.header.UpdatedDay}
	if _, err := dst.WriteAt(date, 1); err != nil {
		return errors.Wrap(err, "patch update date")
	}
	return nil
}

func (w *Writer) patchSeek(dst io.WriteSeeker) error {
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], w.header.RecordCount)
	if _, err := dst.Seek(4, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek record count")
	}
	if _, err := dst.Write(count[:]); err != nil {
		return errors.Wrap(err, "patch record count")
	}
	if _, err := dst.Seek(1, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek update date")
	}
	date := []byte{w.header.UpdatedYear, w.header.UpdatedMonth, w.header.UpdatedDay}
	if _, err := dst.Write(date); err != nil {
		return errors.Wrap(err, "patch update date")
	}
	if _, err := dst.Seek(0, io.SeekEnd); err != nil {
		return errors.Wrap(err, "seek end")
	}
	return nil
}

// Close finalizes the file if Finalize has not run yet, then releases the
// underlying file when the writer owns one.
func (w *Writer) Close() error {
	var err error
	if !w.finalized {
		err = w.Finalize()
	}
	if w.file != nil {
		cerr := w.file.Close()
		w.file = nil
		if err == nil {
			err = cerr
		}
	}
	return err
}
