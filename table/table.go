package table

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arloliu/ptbin/encoding"
	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/options"
	"github.com/arloliu/ptbin/internal/pool"
	"github.com/arloliu/ptbin/section"
)

// Table is an open, read-only PT-table file.
//
// Note: a Table is NOT safe for concurrent use. Each extraction opens its own.
type Table struct {
	path    string
	src     source
	size    int64
	format  format.Format
	decoder encoding.ColumnarDecoder[float32]
	logger  *slog.Logger
}

// Open opens the table at path for reading.
//
// The file size is captured once at open time; all address checks are made
// against it.
//
// Parameters:
//   - path: Table file path
//   - opts: Optional configuration (WithFormat, WithMmap, WithLogger, WithSequentialHint)
//
// Returns:
//   - *Table: The open table, to be released with Close
//   - error: ErrTableNotFound if the file cannot be opened or is a directory,
//     ErrInvalidFormat for a bad layout option
func Open(path string, opts ...Option) (*Table, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTableNotFound, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", errs.ErrTableNotFound, err)
	}

	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", errs.ErrTableNotFound, path)
	}

	t := &Table{
		path:    path,
		size:    info.Size(),
		format:  cfg.format,
		decoder: encoding.NewFloat32RawDecoder(cfg.format.Engine()),
		logger:  cfg.logger,
	}

	if cfg.sequential {
		if err := adviseSequential(f, t.size); err != nil {
			t.logger.Debug("sequential read hint rejected", "path", path, "error", err)
		}
	}

	t.src = &fileSource{f: f}
	if cfg.mmap && t.size > 0 {
		m, err := openMmap(f)
		if err != nil {
			t.logger.Warn("mmap failed, falling back to file reads", "path", path, "error", err)
		} else {
			t.src = m
		}
	}

	if !t.WellFormed() {
		t.logger.Warn("table size is not a multiple of the record size",
			"path", path, "size", t.size, "record_size", t.format.RecordSize())
	}

	t.logger.Debug("table opened", "path", path, "size", t.size, "records", t.NumRecords(), "source", t.src.kind())

	return t, nil
}

// Path returns the path the table was opened from.
func (t *Table) Path() string { return t.path }

// Size returns the file size in bytes.
func (t *Table) Size() int64 { return t.size }

// Format returns the record layout the table is read with.
func (t *Table) Format() format.Format { return t.format }

// NumRecords returns the number of complete records in the file.
func (t *Table) NumRecords() int64 {
	return t.size / int64(t.format.RecordSize())
}

// WellFormed reports whether the file size is an exact multiple of the record size.
//
// Extraction does not require it; only the addressed records have to lie fully
// inside the file.
func (t *Table) WellFormed() bool {
	return t.size%int64(t.format.RecordSize()) == 0
}

// CheckAddress validates that record r lies fully inside the file without reading it.
//
// Returns:
//   - error: ErrAddressOutOfRange if the record starts before the file or at/after its end,
//     ErrTruncatedRecord if the file ends inside the record
func (t *Table) CheckAddress(r int64) error {
	offset, err := t.offset(r)
	if err != nil {
		return err
	}

	if end := offset + int64(t.format.RecordSize()); end > t.size {
		return fmt.Errorf("%w: record %d needs bytes [%d, %d), table size %d",
			errs.ErrTruncatedRecord, r, offset, end, t.size)
	}

	return nil
}

// offset returns the byte offset of record r, or ErrAddressOutOfRange when r
// starts before the file or at/after its end.
//
// The index is bounded against the number of records that start inside the
// file before it is multiplied, so no index can wrap into a valid offset.
func (t *Table) offset(r int64) (int64, error) {
	recordSize := int64(t.format.RecordSize())
	started := (t.size + recordSize - 1) / recordSize

	if idx := r - t.format.Base.Origin(); r < t.format.Base.Origin() || idx >= started {
		return 0, fmt.Errorf("%w: record %d, table holds records %d..%d (size %d)",
			errs.ErrAddressOutOfRange, r, t.format.Base.Origin(), t.format.Base.Origin()+started-1, t.size)
	}

	return section.Offset(t.format, r), nil
}

// CheckSpan validates every record of span against the file size.
//
// Offsets grow with the record index, so the first and last records bound the
// whole span. An empty span is always valid.
func (t *Table) CheckSpan(span section.Span) error {
	if span.Empty() {
		return nil
	}

	if err := t.CheckAddress(span.Start); err != nil {
		return err
	}

	return t.CheckAddress(span.End)
}

// ReadRecord reads and decodes record r into dst.
//
// The byte offset of r is checked against the file size before any read is
// issued, so a failure leaves no partial state. Every call seeks independently;
// no sequential file position is assumed.
//
// Parameters:
//   - r: Record index as produced by section.ComputeSpan
//   - dst: Destination slice, reused when its capacity holds PointsPerRecord values
//
// Returns:
//   - []float32: The PointsPerRecord samples of the record, untransformed
//   - error: ErrTableClosed, ErrAddressOutOfRange, ErrTruncatedRecord or an I/O error
func (t *Table) ReadRecord(r int64, dst []float32) ([]float32, error) {
	if t.src == nil {
		return dst[:0], errs.ErrTableClosed
	}

	bb, raw, err := t.readRaw(r)
	if err != nil {
		return dst[:0], err
	}
	defer pool.PutRecordBuffer(bb)

	return t.decoder.DecodeInto(dst, raw)
}

// ReadSample reads record r and returns its sample at position i.
//
// The record is validated and read exactly as by ReadRecord; i must lie in
// [0, PointsPerRecord).
func (t *Table) ReadSample(r int64, i int) (float32, error) {
	if t.src == nil {
		return 0, errs.ErrTableClosed
	}

	count := t.format.PointsPerRecord
	if i < 0 || i >= count {
		return 0, fmt.Errorf("%w: sample %d of record %d, records hold %d samples",
			errs.ErrAddressOutOfRange, i, r, count)
	}

	bb, raw, err := t.readRaw(r)
	if err != nil {
		return 0, err
	}
	defer pool.PutRecordBuffer(bb)

	v, _ := t.decoder.At(raw, i, count)

	return v, nil
}

// readRaw reads the bytes of record r into a pooled buffer. The caller returns
// the buffer with pool.PutRecordBuffer when err is nil.
func (t *Table) readRaw(r int64) (*pool.ByteBuffer, []byte, error) {
	offset, err := t.offset(r)
	if err != nil {
		return nil, nil, err
	}

	recordSize := t.format.RecordSize()
	bb, raw := pool.GetRecordBuffer(recordSize)

	n, err := t.src.ReadAt(raw, offset)
	if n < recordSize {
		pool.PutRecordBuffer(bb)
		if err == nil || errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: record %d: read %d of %d bytes",
				errs.ErrTruncatedRecord, r, n, recordSize)
		}

		return nil, nil, fmt.Errorf("read record %d: %w", r, err)
	}

	return bb, raw, nil
}

// Close releases the file handle and any mapping. Close is idempotent.
func (t *Table) Close() error {
	if t.src == nil {
		return nil
	}

	err := t.src.Close()
	t.src = nil

	return err
}
