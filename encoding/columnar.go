package encoding

// ColumnarDecoder decodes records of fixed-width samples.
type ColumnarDecoder[T comparable] interface {
	// DecodeInto decodes every sample of record into dst, reusing its capacity.
	DecodeInto(dst []T, record []byte) ([]T, error)

	// At returns sample index of a record holding count samples.
	// The bool is false when index is outside [0, count) or record is short.
	At(record []byte, index int, count int) (T, bool)
}
