// Package format describes the fixed-record layout of PT-table files.
//
// A PT-table has no header. It is a flat sequence of records, each holding
// PointsPerRecord 32-bit floats that sample RecordSpan cm⁻¹ of the spectrum:
//
//	+-----------------------+-----------------------+-----+
//	| record r0 (P × 4 B)   | record r0+1 (P × 4 B) | ... |
//	+-----------------------+-----------------------+-----+
//
// Record r starts at wavenumber r × RecordSpan. Its byte position depends on the
// AddressingBase of the table: (r-1) × RecordSize for OneBased tables, the layout
// of every table produced so far, and r × RecordSize for ZeroBased tables.
//
// The constants live in a Format value instead of package globals so several
// layouts can coexist and tests can use tiny synthetic tables.
package format

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/ptbin/endian"
	"github.com/arloliu/ptbin/errs"
)

const (
	// DefaultPointsPerRecord is the number of samples per record in the reference tables.
	DefaultPointsPerRecord = 20481
	// DefaultRecordSpan is the wavenumber width, in cm⁻¹, covered by one record.
	DefaultRecordSpan = 10.0
	// SampleSize is the byte size of a single float32 sample.
	SampleSize = 4
	// DefaultExtension is the file extension of PT-table files.
	DefaultExtension = "ptbin"
)

// Default is the layout of the reference PT-tables: 20481 little-endian samples
// spanning 10 cm⁻¹ per record, addressed 1-based.
var Default = Format{
	PointsPerRecord: DefaultPointsPerRecord,
	RecordSpan:      DefaultRecordSpan,
	Base:            OneBased,
	ByteOrder:       binary.LittleEndian,
}

// Format holds the layout constants of one table family.
type Format struct {
	// PointsPerRecord is the number of float32 samples in a record (P). Must be >= 2.
	PointsPerRecord int
	// RecordSpan is the wavenumber width covered by a record in cm⁻¹ (W). Must be > 0.
	RecordSpan float64
	// Base selects how record indices map to byte offsets.
	Base AddressingBase
	// ByteOrder of the samples. Nil means little-endian.
	ByteOrder endian.EndianEngine
}

// RecordSize returns the byte length of one record (P × 4).
func (f Format) RecordSize() int {
	return f.PointsPerRecord * SampleSize
}

// Step returns the wavenumber distance between two emitted samples when every
// stride-th sample of a record is kept.
//
// The stride scales the full-resolution step W / (P-1), so decimated output stays
// aligned with the full-resolution grid.
func (f Format) Step(stride int) float64 {
	return float64(stride) * f.RecordSpan / float64(f.PointsPerRecord-1)
}

// BaseWavenumber returns the wavenumber of the first sample of record r.
func (f Format) BaseWavenumber(r int64) float64 {
	return float64(r) * f.RecordSpan
}

// Engine returns the byte order engine for decoding samples.
func (f Format) Engine() endian.EndianEngine {
	if f.ByteOrder == nil {
		return endian.GetLittleEndianEngine()
	}

	return f.ByteOrder
}

// Validate checks that the layout constants can address records.
//
// Returns:
//   - error: ErrInvalidFormat describing the first bad field, or nil
func (f Format) Validate() error {
	if f.PointsPerRecord < 2 {
		return fmt.Errorf("%w: points per record must be at least 2, got %d", errs.ErrInvalidFormat, f.PointsPerRecord)
	}

	if f.RecordSpan <= 0 || math.IsNaN(f.RecordSpan) || math.IsInf(f.RecordSpan, 0) {
		return fmt.Errorf("%w: record span must be positive, got %v", errs.ErrInvalidFormat, f.RecordSpan)
	}

	if f.Base != OneBased && f.Base != ZeroBased {
		return fmt.Errorf("%w: unknown addressing base %d", errs.ErrInvalidFormat, f.Base)
	}

	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("Format{P=%d, W=%g, %s}", f.PointsPerRecord, f.RecordSpan, f.Base)
}
