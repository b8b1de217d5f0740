package pool

import (
	"sync"
)

const (
	// RecordBufferDefaultSize fits one record of the reference layout (20481 × 4 bytes).
	RecordBufferDefaultSize = 1024 * 96 // 96KiB
	// RecordBufferMaxThreshold bounds the buffers kept by the record pool.
	RecordBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
	// DigestBufferSize is the chunk size used when streaming a table through a hash.
	DigestBufferSize = 1024 * 256 // 256KiB
)

type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Resize sets the length of the buffer to n, reallocating when the capacity is
// too small. The content of a reallocated buffer is not preserved.
//
// Panics if n is negative.
func (bb *ByteBuffer) Resize(n int) []byte {
	if n < 0 {
		panic("Resize: negative length")
	}

	if cap(bb.B) < n {
		bb.B = make([]byte, n)
		return bb.B
	}

	bb.B = bb.B[:n]

	return bb.B
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers larger than maxThreshold are dropped on Put so one oversized record
// format does not pin memory for the rest of the process.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	recordPool = NewByteBufferPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)
	digestPool = NewByteBufferPool(DigestBufferSize, DigestBufferSize)
)

// GetRecordBuffer retrieves a buffer of exactly size bytes from the record pool.
//
// Example:
//
//	bb, raw := pool.GetRecordBuffer(f.RecordSize())
//	defer pool.PutRecordBuffer(bb)
func GetRecordBuffer(size int) (*ByteBuffer, []byte) {
	bb := recordPool.Get()
	return bb, bb.Resize(size)
}

// PutRecordBuffer returns a buffer to the record pool.
func PutRecordBuffer(bb *ByteBuffer) {
	recordPool.Put(bb)
}

// GetDigestBuffer retrieves a DigestBufferSize chunk buffer.
func GetDigestBuffer() (*ByteBuffer, []byte) {
	bb := digestPool.Get()
	return bb, bb.Resize(DigestBufferSize)
}

// PutDigestBuffer returns a chunk buffer to the digest pool.
func PutDigestBuffer(bb *ByteBuffer) {
	digestPool.Put(bb)
}
