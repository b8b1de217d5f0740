package export

import (
	"context"
	"iter"

	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/section"
	"github.com/arloliu/ptbin/spectrum"
)

// Labels describe an extracted spectrum for display. The engine passes them
// through untouched.
type Labels struct {
	// Molecule is the absorbing species, e.g. "CO2".
	Molecule string
	// Level is the atmospheric level the table belongs to.
	Level int
	// Left and Right are the requested wavenumber bounds in cm⁻¹.
	Left, Right float64
	// Table is the wavenumber interval the table was calculated for.
	Table section.Extent
	// Cutoff is the line cutoff distance in cm⁻¹, kept as written in the sidecar.
	Cutoff string
	// Target is the calculated quantity: "ACS" or "VAC".
	Target string
	// Profile is the atmospheric profile file name.
	Profile string
	// Resolution the spectrum was extracted at.
	Resolution format.Resolution
	// Preamble is copied verbatim to the top of text exports.
	Preamble []byte
}

// Result is a one-shot sequence of points plus its terminal error.
//
// Err is meaningful once All has been drained; a non-nil error means every
// point already yielded must be discarded.
type Result interface {
	All() iter.Seq2[int, spectrum.Point]
	Err() error
}

// Consumer renders the points of a result.
type Consumer interface {
	// Consume drains res and writes its output. It returns res.Err() when the
	// result failed, without committing any output.
	Consume(ctx context.Context, labels Labels, res Result) error
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, labels Labels, res Result) error

// Consume calls f(ctx, labels, res).
func (f ConsumerFunc) Consume(ctx context.Context, labels Labels, res Result) error {
	return f(ctx, labels, res)
}

// Series is an in-memory Result over already materialized points.
type Series []spectrum.Point

var _ Result = Series(nil)

// All yields the points with their positions.
func (s Series) All() iter.Seq2[int, spectrum.Point] {
	return func(yield func(int, spectrum.Point) bool) {
		for i, p := range s {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Err always returns nil.
func (s Series) Err() error { return nil }
