package spectrum

import "fmt"

// Point is one reconstructed sample: a wavenumber in cm⁻¹ and the absorption
// value stored for it.
type Point struct {
	Wavenumber float64
	Value      float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.5f, %g)", p.Wavenumber, p.Value)
}
