package spectrum

import (
	"iter"
	"math"
)

// Decimate returns every stride-th sample of samples: ceil(len/stride) values,
// the i-th equal to samples[i×stride].
//
// The result is a new slice; samples is not modified. A stride of 1 returns a
// copy, a stride below 1 returns nil.
func Decimate(samples []float32, stride int) []float32 {
	if stride < 1 {
		return nil
	}

	out := make([]float32, 0, (len(samples)+stride-1)/stride)
	for i := 0; i < len(samples); i += stride {
		out = append(out, samples[i])
	}

	return out
}

// Log10 returns log10(v) for positive v and -Inf otherwise.
//
// Absorption tables contain exact zeros far from any line; those map to -Inf
// and are left for the consumer to drop.
func Log10(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return math.Inf(-1)
	}

	return math.Log10(v)
}

// LogTransform applies Log10 to the value of every point of seq.
func LogTransform(seq iter.Seq[Point]) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for p := range seq {
			p.Value = Log10(p.Value)
			if !yield(p) {
				return
			}
		}
	}
}
