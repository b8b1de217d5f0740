package encoding

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/arloliu/ptbin/endian"
	"github.com/arloliu/ptbin/format"
)

// Float32RawDecoder decodes raw IEEE 754 single-precision samples.
//
// Each sample occupies exactly 4 bytes in the byte order of the endian engine.
// This is the sample layout of PT-table records.
type Float32RawDecoder struct {
	engine endian.EndianEngine
	native bool
}

var _ ColumnarDecoder[float32] = Float32RawDecoder{}

// NewFloat32RawDecoder creates a new raw float32 decoder using the specified endian engine.
//
// The decoder is immutable and stateless; it is returned by value and can be
// shared between readers.
//
// Parameters:
//   - engine: Endian engine for byte order (little-endian for PT-tables)
//
// Returns:
//   - Float32RawDecoder: A new decoder instance
func NewFloat32RawDecoder(engine endian.EndianEngine) Float32RawDecoder {
	return Float32RawDecoder{
		engine: engine,
		native: endian.CompareNativeEndian(engine),
	}
}

// At retrieves the float32 value at the specified index.
//
// If the index is out of bounds (negative or >= count) or data is too short,
// the method returns false.
func (d Float32RawDecoder) At(data []byte, index int, count int) (float32, bool) {
	if len(data) == 0 || index < 0 || index >= count {
		return 0, false
	}

	start := index * format.SampleSize
	if start+format.SampleSize > len(data) {
		return 0, false
	}

	return math.Float32frombits(d.engine.Uint32(data[start : start+format.SampleSize])), true
}

// DecodeInto decodes every sample of data into dst, growing dst when needed.
//
// When the engine matches the host byte order the samples are copied in bulk
// instead of being decoded one by one.
//
// Parameters:
//   - dst: Destination slice, reused when its capacity suffices
//   - data: Raw sample bytes, length must be a multiple of 4
//
// Returns:
//   - []float32: dst resliced to len(data)/4 values
//   - error: If len(data) is not a multiple of 4
func (d Float32RawDecoder) DecodeInto(dst []float32, data []byte) ([]float32, error) {
	if len(data)%format.SampleSize != 0 {
		return dst[:0], fmt.Errorf("byte slice length (%d) is not a multiple of %d", len(data), format.SampleSize)
	}

	n := len(data) / format.SampleSize
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]

	if n == 0 {
		return dst, nil
	}

	if d.native {
		copy(dst, unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), n))
		return dst, nil
	}

	for i := range dst {
		start := i * format.SampleSize
		dst[i] = math.Float32frombits(d.engine.Uint32(data[start : start+format.SampleSize]))
	}

	return dst, nil
}
