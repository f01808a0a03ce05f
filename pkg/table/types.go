// Package table is the engine above the record codec: streaming readers
// and writers over table files, and an in-memory Table supporting the
// add/update/soft-delete/compact/flush life cycle.
package table

import (
	"errors"

	"github.com/ssargent/xbase/pkg/codec"
)

// Errors reported by the table engine.
var (
	ErrTableClosed         = errors.New("table is closed")
	ErrIndexOutOfRange     = errors.New("record index out of range")
	ErrFinalized           = errors.New("writer already finalized")
	ErrRecordCountMismatch = errors.New("record count mismatch")
)

// RecordIterator provides streaming access to records.
type RecordIterator interface {
	Next() bool
	Record() *codec.Record
	Err() error
	Close() error
}

// ReaderConfig configures a streaming Reader.
type ReaderConfig struct {
	// Decoder translates Character bytes out of the table's codepage.
	// Nil leaves text untranslated.
	Decoder codec.TextDecoder
}

// WriterConfig configures a streaming Writer.
type WriterConfig struct {
	// Encoder translates Character text into the table's codepage.
	// Nil writes text bytes as given.
	Encoder codec.TextEncoder

	// BufferSize overrides the write buffer size in bytes. Zero picks the
	// bufio default.
	BufferSize int
}

// Options configures an in-memory Table.
type Options struct {
	Decoder codec.TextDecoder
	Encoder codec.TextEncoder

	// Version selects the header version byte for new tables. Zero picks
	// dBASE III PLUS, switching to its memo variant when the field list
	// carries a Memo field.
	Version byte

	// LanguageDriver stamps the codepage marker byte of new tables.
	LanguageDriver byte
}
