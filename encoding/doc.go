// Package encoding decodes the raw sample payload of PT-table records.
//
// A record is a run of IEEE 754 single-precision floats with no framing:
//
//	+-----------+-----------+-----+---------------+
//	| sample 0  | sample 1  | ... | sample P-1    |
//	| (4 bytes) | (4 bytes) |     | (4 bytes)     |
//	+-----------+-----------+-----+---------------+
//
// Float32RawDecoder implements the ColumnarDecoder interface for this layout.
// DecodeInto decodes a whole record into a reusable slice and At picks a single
// sample:
//
//	decoder := encoding.NewFloat32RawDecoder(endian.GetLittleEndianEngine())
//	samples, err := decoder.DecodeInto(samples, recordBytes)
//
// No transformation is applied while decoding; values come back exactly as stored.
//
// # Thread Safety
//
// Decoders are immutable values and safe for concurrent use.
package encoding
