package section

import (
	"fmt"

	"github.com/arloliu/ptbin/errs"
)

// Extent is the wavenumber interval [Left, Right] a table was calculated for.
type Extent struct {
	Left  float64
	Right float64
}

// Check reports whether [left, right) is a valid request inside the extent,
// that is Left <= left < right <= Right.
//
// Returns:
//   - error: ErrInvalidRange for a malformed interval, ErrOutOfTableBounds when
//     the interval leaves the extent
func (e Extent) Check(left, right float64) error {
	if err := CheckRange(left, right); err != nil {
		return err
	}

	if left < e.Left || right > e.Right {
		return fmt.Errorf("%w: requested [%v, %v) is outside the table range [%v, %v]",
			errs.ErrOutOfTableBounds, left, right, e.Left, e.Right)
	}

	return nil
}

func (e Extent) String() string {
	return fmt.Sprintf("[%g, %g]", e.Left, e.Right)
}
