package table

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ssargent/xbase/pkg/codec"
)

// Reader streams records out of a table file, one row per Next call. The
// header is decoded up front; rows decode lazily, so scanning a large table
// costs one row buffer regardless of file size.
//
// Next returns io.EOF at the end-of-data marker. A per-value decode error
// (codec.IsValueError) spoils only its row: the cursor has already advanced,
// so the caller may skip the row and call Next again. Any structural error
// is sticky and every later Next repeats it.
type Reader struct {
	src    io.Reader
	file   *os.File // owned when opened by path
	header *codec.TableHeader
	fields []codec.FieldDescriptor
	rc     *codec.RecordCodec
	row    []byte
	index  int64
	offset int64
	err    error
	config ReaderConfig
}

// NewReader decodes the header from r and positions the stream at the first
// record.
func NewReader(r io.Reader, config ReaderConfig) (*Reader, error) {
	header, fields, err := codec.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	rc, err := codec.NewRecordCodec(fields, codec.CodecOptions{Decoder: config.Decoder})
	if err != nil {
		return nil, err
	}
	return &Reader{
		src:    r,
		header: header,
		fields: fields,
		rc:     rc,
		row:    make([]byte, rc.RecordLength()),
		offset: int64(header.HeaderLength),
		config: config,
	}, nil
}

// OpenReader opens a table file from disk. Close releases the file.
func OpenReader(path string, config ReaderConfig) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open table")
	}
	r, err := NewReader(bufio.NewReader(f), config)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// Header returns the decoded table header.
func (r *Reader) Header() *codec.TableHeader {
	return r.header
}

// Fields returns the field descriptors of the table.
func (r *Reader) Fields() []codec.FieldDescriptor {
	return r.fields
}

// Index returns the ordinal of the next record Next will consume.
func (r *Reader) Index() int64 {
	return r.index
}

// Offset returns the byte offset the cursor sits at.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Err returns the sticky error that ended the scan, if any. io.EOF means
// the table ended cleanly.
func (r *Reader) Err() error {
	return r.err
}

// Next reads and decodes the next record. It returns io.EOF once the
// end-of-data marker (or a clean end of file on a row boundary) is reached.
func (r *Reader) Next() (*codec.Record, error) {
	if r.err != nil {
		return nil, r.err
	}

	if _, err := io.ReadFull(r.src, r.row[:1]); err != nil {
		if err == io.EOF {
			// Some writers omit the end-of-data marker; a clean end on a
			// row boundary still counts as the end of the table.
			r.err = io.EOF
			return nil, io.EOF
		}
		r.err = errors.Wrapf(err, "read record %d", r.index)
		return nil, r.err
	}
	if r.row[0] == codec.EndOfData {
		r.offset++
		r.err = io.EOF
		return nil, io.EOF
	}

	if _, err := io.ReadFull(r.src, r.row[1:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.err = errors.Wrapf(codec.ErrMalformedRecord, "record %d truncated", r.index)
		} else {
			r.err = errors.Wrapf(err, "read record %d", r.index)
		}
		return nil, r.err
	}

	ordinal := r.index
	r.index++
	r.offset += int64(len(r.row))

	record, err := r.rc.Decode(r.row)
	if err != nil {
		err = errors.Wrapf(err, "record %d", ordinal)
		if !codec.IsValueError(err) {
			r.err = err
		}
		return nil, err
	}
	return record, nil
}

// Iterator returns a streaming iterator over the remaining records. The
// iterator stops at the first error of any kind; use Next directly to skip
// past rows with unparseable values.
func (r *Reader) Iterator() RecordIterator {
	return &recordIterator{reader: r}
}

// recordIterator implements RecordIterator for streaming access.
type recordIterator struct {
	reader *Reader
	record *codec.Record
	err    error
}

func (it *recordIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.record, it.err = it.reader.Next()
	return it.err == nil
}

func (it *recordIterator) Record() *codec.Record {
	return it.record
}

// Err returns the error that stopped the iteration, or nil after a clean
// end of table.
func (it *recordIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *recordIterator) Close() error {
	// The underlying reader is owned by the caller.
	return nil
}

// Close releases the underlying file when the reader owns one. Later Next
// calls fail with ErrTableClosed.
func (r *Reader) Close() error {
	if r.err == nil || r.err == io.EOF {
		r.err = ErrTableClosed
	}
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
