package section

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/format"
)

// Span is an inclusive, contiguous range of record indices.
//
// A Span with End < Start is empty: the request was narrower than one unit of
// wavenumber and ended before the base of its first record.
type Span struct {
	Start int64 // first record index, floor(left / W)
	End   int64 // last record index, floor((right - 1) / W)
}

// Address pairs a record index with the byte offset the record is expected at.
type Address struct {
	Record int64
	Offset int64
}

// ComputeSpan maps a requested wavenumber interval to the records covering it.
//
// Addressing works in whole-record granularity: the span always starts at the
// record containing left and the result is never clipped to [left, right).
// ComputeSpan performs no I/O and does not know the table size; the reader
// validates the addresses against the file.
//
// Parameters:
//   - f: Table layout (only RecordSpan is used)
//   - left: Left wavenumber bound in cm⁻¹
//   - right: Right wavenumber bound in cm⁻¹, must be greater than left
//
// Returns:
//   - Span: The inclusive record range
//   - error: ErrInvalidRange if left >= right, a bound is negative or not finite,
//     or a bound addresses a record past MaxRecord
func ComputeSpan(f format.Format, left, right float64) (Span, error) {
	if err := CheckRange(left, right); err != nil {
		return Span{}, err
	}

	if f.RecordSpan <= 0 {
		return Span{}, fmt.Errorf("%w: record span must be positive, got %v", errs.ErrInvalidFormat, f.RecordSpan)
	}

	start := math.Floor(left / f.RecordSpan)
	end := math.Floor((right - 1) / f.RecordSpan)

	// float64(limit) may round up, so the bound itself is rejected too
	if limit := float64(MaxRecord(f)); start >= limit || end >= limit {
		return Span{}, fmt.Errorf("%w: [%v, %v) addresses records beyond %d",
			errs.ErrInvalidRange, left, right, MaxRecord(f))
	}

	return Span{Start: int64(start), End: int64(end)}, nil
}

// MaxRecord returns the largest record index whose byte offset fits in an int64.
func MaxRecord(f format.Format) int64 {
	size := int64(f.RecordSize())
	if size <= 0 {
		return math.MaxInt64
	}

	return math.MaxInt64/size + f.Base.Origin() - 1
}

// CheckRange validates a wavenumber interval without addressing it.
func CheckRange(left, right float64) error {
	if !isFinite(left) || !isFinite(right) {
		return fmt.Errorf("%w: bounds must be finite, got [%v, %v)", errs.ErrInvalidRange, left, right)
	}

	if left < 0 || right < 0 {
		return fmt.Errorf("%w: bounds must be non-negative, got [%v, %v)", errs.ErrInvalidRange, left, right)
	}

	if left >= right {
		return fmt.Errorf("%w: left bound %v must be less than right bound %v", errs.ErrInvalidRange, left, right)
	}

	return nil
}

// Count returns the number of records in the span.
func (s Span) Count() int64 {
	if s.End < s.Start {
		return 0
	}

	return s.End - s.Start + 1
}

// Empty reports whether the span addresses no record.
func (s Span) Empty() bool {
	return s.Count() == 0
}

// Records returns the record indices of the span in increasing order.
func (s Span) Records() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for r := s.Start; r <= s.End; r++ {
			if !yield(r) {
				return
			}
		}
	}
}

// Addresses returns each record of the span with its expected byte offset.
func (s Span) Addresses(f format.Format) iter.Seq[Address] {
	return func(yield func(Address) bool) {
		for r := range s.Records() {
			if !yield(Address{Record: r, Offset: Offset(f, r)}) {
				return
			}
		}
	}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d]", s.Start, s.End)
}

// Offset returns the byte offset of record r in a table of layout f.
//
// Under the OneBased layout record 0 has a negative offset; the reader rejects
// it with ErrAddressOutOfRange. A request with left < W therefore cannot be
// served from a OneBased table.
//
// The result wraps for r > MaxRecord(f); callers bound r first.
func Offset(f format.Format, r int64) int64 {
	return (r - f.Base.Origin()) * int64(f.RecordSize())
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
