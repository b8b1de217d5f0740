package spectrum

import (
	"iter"

	"github.com/arloliu/ptbin/format"
)

// Reconstruct yields the points of record r, keeping every stride-th sample.
//
// The k-th point has wavenumber r×W + k×Step(stride) and value samples[k×stride];
// iteration stops once k×stride reaches PointsPerRecord or the end of samples.
// The first wavenumber equals r×W exactly. A stride below 1 yields nothing.
//
// Parameters:
//   - f: Record layout
//   - r: Record index
//   - samples: Decoded samples of record r
//   - stride: Keep every stride-th sample (format.Resolution.Stride)
//
// Returns:
//   - iter.Seq[Point]: Points in increasing wavenumber order
func Reconstruct(f format.Format, r int64, samples []float32, stride int) iter.Seq[Point] {
	return NewReconstructor(f, stride).Record(r, samples)
}

// Reconstructor reconstructs records of one format at a fixed stride.
//
// It precomputes the step so the per-record work is a multiply-add per point.
type Reconstructor struct {
	format format.Format
	stride int
	step   float64
	limit  int
}

// NewReconstructor creates a reconstructor for records of f decimated by stride.
func NewReconstructor(f format.Format, stride int) Reconstructor {
	return Reconstructor{
		format: f,
		stride: stride,
		step:   f.Step(stride),
		limit:  f.PointsPerRecord,
	}
}

// Step returns the wavenumber distance between consecutive emitted points.
func (rc Reconstructor) Step() float64 { return rc.step }

// Stride returns the sample stride.
func (rc Reconstructor) Stride() int { return rc.stride }

// PointsPerRecord returns how many points one full record produces: ceil(P / stride).
func (rc Reconstructor) PointsPerRecord() int {
	if rc.stride < 1 {
		return 0
	}

	return (rc.limit + rc.stride - 1) / rc.stride
}

// Record yields the points of record r. See Reconstruct.
func (rc Reconstructor) Record(r int64, samples []float32) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if rc.stride < 1 {
			return
		}

		base := rc.format.BaseWavenumber(r)
		limit := min(rc.limit, len(samples))

		for k, i := 0, 0; i < limit; k, i = k+1, i+rc.stride {
			if !yield(Point{Wavenumber: base + float64(k)*rc.step, Value: float64(samples[i])}) {
				return
			}
		}
	}
}
