package ptbin

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/pool"
	"github.com/arloliu/ptbin/section"
	"github.com/arloliu/ptbin/spectrum"
	"github.com/arloliu/ptbin/table"
)

// Extraction is the lazy result of Extractor.Extract.
//
// Points are produced by All, one record at a time, in increasing wavenumber
// order. The sequence can be consumed once. After it ends, Err reports why: nil
// for a complete or deliberately stopped iteration, otherwise the failure, in
// which case every point already received must be discarded.
//
// Note: an Extraction is NOT safe for concurrent use.
type Extraction struct {
	ctx        context.Context
	path       string
	tbl        *table.Table
	format     format.Format
	span       section.Span
	resolution format.Resolution
	log        bool
	rc         spectrum.Reconstructor
	logger     *slog.Logger

	state    State
	err      error
	consumed bool
}

// All returns the points of the extraction, indexed from 0.
//
// Before each record the context is checked; a cancelled context ends the
// sequence with ctx.Err() as the terminal error. The table is closed when the
// sequence ends for any reason, including an early break by the caller.
//
// A second call yields nothing and sets Err to ErrConsumed, unless an earlier
// failure is already recorded.
func (x *Extraction) All() iter.Seq2[int, spectrum.Point] {
	return func(yield func(int, spectrum.Point) bool) {
		if x.consumed {
			if x.err == nil {
				x.err = errs.ErrConsumed
			}
			return
		}
		x.consumed = true
		defer x.release()

		start := time.Now()
		samples, done := pool.GetFloat32Slice(x.format.PointsPerRecord)
		defer done()

		idx := 0
		records := 0
		for addr := range x.span.Addresses(x.format) {
			if err := x.ctx.Err(); err != nil {
				x.fail(err)
				return
			}

			x.state = StateReading
			x.logger.Debug("processing record", "record", addr.Record, "offset", addr.Offset)

			var err error
			samples, err = x.tbl.ReadRecord(addr.Record, samples)
			if err != nil {
				x.fail(err)
				return
			}

			x.state = StateReconstructing
			seq := x.rc.Record(addr.Record, samples)
			if x.log {
				seq = spectrum.LogTransform(seq)
			}

			for p := range seq {
				if !yield(idx, p) {
					x.state = StateDone
					x.logger.Debug("extraction stopped by consumer",
						"path", x.path, "records", records+1, "points", idx+1)
					return
				}
				idx++
			}
			records++
		}

		x.state = StateDone
		x.logger.Info("extraction complete",
			"path", x.path, "records", records, "points", idx, "duration", time.Since(start))
	}
}

// Err returns the terminal error of the extraction, or nil.
func (x *Extraction) Err() error { return x.err }

// Close releases the table. It is only needed when All is never drained; Close
// is idempotent and safe to call after iteration.
//
// Closing an extraction that has not been iterated consumes it.
func (x *Extraction) Close() error {
	x.consumed = true
	if !x.state.Terminal() {
		x.state = StateDone
	}

	return x.release()
}

// State returns the current lifecycle position.
func (x *Extraction) State() State { return x.state }

// Span returns the records addressed by the request.
func (x *Extraction) Span() section.Span { return x.span }

// Step returns the wavenumber distance between consecutive points of a record.
func (x *Extraction) Step() float64 { return x.rc.Step() }

// Resolution returns the effective resolution.
func (x *Extraction) Resolution() format.Resolution { return x.resolution }

// Path returns the table path.
func (x *Extraction) Path() string { return x.path }

// ExpectedPoints returns the number of points a complete iteration yields:
// records × ceil(P / stride).
func (x *Extraction) ExpectedPoints() int64 {
	return x.span.Count() * int64(x.rc.PointsPerRecord())
}

func (x *Extraction) fail(err error) {
	x.err = err
	x.state = StateFailed
	x.logger.Debug("extraction failed", "path", x.path, "error", err)
}

func (x *Extraction) release() error {
	if x.tbl == nil {
		return nil
	}

	err := x.tbl.Close()
	x.tbl = nil

	return err
}
