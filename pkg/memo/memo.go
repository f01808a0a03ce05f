// Package memo resolves Memo field block pointers against the companion
// memo file (.dbt) that rides next to a table. Memo text lives in 512-byte
// blocks; block 0 is the file header, so valid pointers start at 1. Text
// runs from the start of its block to the first 0x1A marker.
package memo

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ssargent/xbase/pkg/codec"
)

// BlockSize is the block granularity of dBASE memo files.
const BlockSize = 512

// ErrMemoNotFound reports a pointer outside the memo file: block 0, a
// negative block, or a block past the end of the file.
var ErrMemoNotFound = errors.New("memo block not found")

// File reads memo text out of one memo file. It satisfies
// codec.MemoResolver, so it plugs straight into record decoding.
type File struct {
	r    io.ReaderAt
	size int64

	closer io.Closer
}

var _ codec.MemoResolver = (*File)(nil)

// Open opens a memo file from disk.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open memo file")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat memo file")
	}
	mf := NewFile(f, info.Size())
	mf.closer = f
	return mf, nil
}

// NewFile wraps an in-memory or already-open memo image of the given size.
func NewFile(r io.ReaderAt, size int64) *File {
	return &File{r: r, size: size}
}

// Size returns the byte size of the memo file.
func (f *File) Size() int64 {
	return f.size
}

// Resolve reads the memo text a Memo field points at. The text starts at
// block ptr and ends at the first 0x1A marker; a memo that never wrote its
// marker runs to the end of the file.
func (f *File) Resolve(ptr codec.MemoPointer) ([]byte, error) {
	if ptr < 1 {
		return nil, errors.Wrapf(ErrMemoNotFound, "block %d", ptr)
	}
	offset := int64(ptr) * BlockSize
	if offset >= f.size {
		return nil, errors.Wrapf(ErrMemoNotFound, "block %d starts at %d, file is %d bytes", ptr, offset, f.size)
	}

	var text []byte
	block := make([]byte, BlockSize)
	for offset < f.size {
		n, err := f.r.ReadAt(block, offset)
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "read memo block at %d", offset)
		}
		chunk := block[:n]
		if i := bytes.IndexByte(chunk, codec.EndOfData); i >= 0 {
			return append(text, chunk[:i]...), nil
		}
		text = append(text, chunk...)
		offset += int64(n)
		if n == 0 {
			break
		}
	}
	return text, nil
}

// Close releases the underlying file when this File owns one.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}
