package table

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ssargent/xbase/pkg/codec"
)

// Table holds a whole table in memory for random-access reads and edits.
// Every mutation is validated by encoding the affected record before it is
// accepted, so a table never holds a row it cannot write back out. Flush
// serializes the current state in one pass and recomputes the header's
// record count and update date.
//
// A Table is not safe for concurrent use.
type Table struct {
	header  codec.TableHeader
	fields  []codec.FieldDescriptor
	rc      *codec.RecordCodec
	records []*codec.Record
	dirty   bool
	closed  bool

	opts Options
}

// New creates an empty table over the given field list. With a zero
// Options.Version the dialect defaults to dBASE III PLUS, switching to the
// memo variant when the field list carries a Memo field.
func New(fields []codec.FieldDescriptor, opts Options) (*Table, error) {
	// Authoring a fresh table holds names to the strict dBASE convention.
	// Tables loaded from disk only need a legal shape; see Load.
	for _, fd := range fields {
		if err := fd.Validate(); err != nil {
			return nil, err
		}
	}
	rc, err := codec.NewRecordCodec(fields, codec.CodecOptions{Decoder: opts.Decoder, Encoder: opts.Encoder})
	if err != nil {
		return nil, err
	}

	version := opts.Version
	if version == 0 {
		version = defaultHeader(fields).Version
	} else if _, ok := codec.VersionName(version); !ok {
		return nil, errors.Wrapf(codec.ErrUnsupportedVersion, "version byte 0x%02X", version)
	}

	var header codec.TableHeader
	header.Version = version
	header.SetLastUpdate(time.Now())
	if opts.LanguageDriver != 0 {
		header.SetLanguageDriver(opts.LanguageDriver)
	}

	return &Table{
		header: header,
		fields: rc.Fields(),
		rc:     rc,
		opts:   opts,
	}, nil
}

// Load reads an entire table from src into memory. It is all-or-nothing:
// a structural error or a bad value in any row aborts the load. Use Reader
// directly to stream past rows with unparseable values.
func Load(src io.Reader, opts Options) (*Table, error) {
	r, err := NewReader(src, ReaderConfig{Decoder: opts.Decoder})
	if err != nil {
		return nil, err
	}
	rc, err := codec.NewRecordCodec(r.Fields(), codec.CodecOptions{Decoder: opts.Decoder, Encoder: opts.Encoder})
	if err != nil {
		return nil, err
	}

	t := &Table{
		header: *r.Header(),
		fields: r.Fields(),
		rc:     rc,
		opts:   opts,
	}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

// OpenFile loads a table file from disk.
func OpenFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open table")
	}
	defer f.Close()
	return Load(bufio.NewReader(f), opts)
}

// Fields returns the table's field descriptors.
func (t *Table) Fields() []codec.FieldDescriptor {
	return t.fields
}

// Header returns a copy of the table's current header. The record count and
// update date reflect the last load or flush, not unflushed edits.
func (t *Table) Header() codec.TableHeader {
	return t.header
}

// Len returns the number of records held, soft-deleted ones included.
func (t *Table) Len() int {
	return len(t.records)
}

// Record returns an independent copy of the record at position i. Edits to
// the copy do not touch the table; apply them with Update.
func (t *Table) Record(i int) (*codec.Record, error) {
	if t.closed {
		return nil, ErrTableClosed
	}
	if i < 0 || i >= len(t.records) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "record %d of %d", i, len(t.records))
	}
	return t.records[i].Copy(), nil
}

// Deleted reports whether the record at position i carries the soft-delete
// flag.
func (t *Table) Deleted(i int) (bool, error) {
	if t.closed {
		return false, ErrTableClosed
	}
	if i < 0 || i >= len(t.records) {
		return false, errors.Wrapf(ErrIndexOutOfRange, "record %d of %d", i, len(t.records))
	}
	return t.records[i].Deleted, nil
}

// Add appends a record built from name-keyed values and returns its
// position. Names absent from the map are stored as the no-value marker.
// The record is rejected whole if any value does not fit its field.
func (t *Table) Add(values map[string]interface{}) (int, error) {
	if t.closed {
		return 0, ErrTableClosed
	}
	rec, err := t.rc.RecordFromValues(values)
	if err != nil {
		return 0, err
	}
	if _, err := t.rc.Encode(rec); err != nil {
		return 0, err
	}
	t.records = append(t.records, rec)
	t.dirty = true
	return len(t.records) - 1, nil
}

// Update applies name-keyed values to the record at position i. Fields not
// named keep their current value. The update is rejected whole if any value
// does not fit; the stored record is only swapped once everything encodes.
func (t *Table) Update(i int, values map[string]interface{}) error {
	if t.closed {
		return ErrTableClosed
	}
	if i < 0 || i >= len(t.records) {
		return errors.Wrapf(ErrIndexOutOfRange, "record %d of %d", i, len(t.records))
	}

	rec := t.records[i].Copy()
	for name, v := range values {
		if err := rec.Set(name, v); err != nil {
			return err
		}
	}
	if _, err := t.rc.Encode(rec); err != nil {
		return err
	}
	t.records[i] = rec
	t.dirty = true
	return nil
}

// MarkDeleted sets the soft-delete flag on the record at position i. The
// record stays in place until Compact drops it.
func (t *Table) MarkDeleted(i int) error {
	return t.setDeleted(i, true)
}

// Undelete clears the soft-delete flag on the record at position i.
func (t *Table) Undelete(i int) error {
	return t.setDeleted(i, false)
}

func (t *Table) setDeleted(i int, deleted bool) error {
	if t.closed {
		return ErrTableClosed
	}
	if i < 0 || i >= len(t.records) {
		return errors.Wrapf(ErrIndexOutOfRange, "record %d of %d", i, len(t.records))
	}
	if t.records[i].Deleted == deleted {
		return nil
	}
	t.records[i].Deleted = deleted
	t.dirty = true
	return nil
}

// Compact drops every soft-deleted record and returns how many were
// removed. Positions of the surviving records shift down. Compacting a
// table with nothing flagged is a no-op.
func (t *Table) Compact() (int, error) {
	if t.closed {
		return 0, ErrTableClosed
	}
	kept := t.records[:0]
	dropped := 0
	for _, rec := range t.records {
		if rec.Deleted {
			dropped++
			continue
		}
		kept = append(kept, rec)
	}
	for i := len(kept); i < len(t.records); i++ {
		t.records[i] = nil
	}
	t.records = kept
	if dropped > 0 {
		t.dirty = true
	}
	return dropped, nil
}

// Flush writes the whole table to dst: header, every record in position
// order (soft-deleted ones included), and the end-of-data marker. The
// header's record count and update date are recomputed first, so the
// encoded stream always declares what it actually carries.
func (t *Table) Flush(dst io.Writer) error {
	if t.closed {
		return ErrTableClosed
	}

	t.header.RecordCount = uint32(len(t.records))
	t.header.SetLastUpdate(time.Now())

	w, err := NewWriter(dst, &t.header, t.fields, WriterConfig{Encoder: t.opts.Encoder})
	if err != nil {
		return err
	}
	for _, rec := range t.records {
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
	}
	if err := w.Finalize(); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

// WriteFile writes the whole table to a file, creating or truncating it.
func (t *Table) WriteFile(path string) error {
	if t.closed {
		return ErrTableClosed
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create table")
	}
	if err := t.Flush(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "sync table")
	}
	return errors.Wrap(f.Close(), "close table")
}

// Dirty reports whether the table has edits not yet flushed.
func (t *Table) Dirty() bool {
	return t.dirty
}

// Close marks the table closed; every later operation fails with
// ErrTableClosed. Closing does not flush.
func (t *Table) Close() error {
	t.closed = true
	return nil
}
