package hash

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Sum64 computes the xxHash64 of the given bytes.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Stream feeds src through xxHash64 in chunks of len(buf) bytes and returns the
// digest. ctx is checked between chunks so hashing a multi-gigabyte table can be
// cancelled.
//
// Parameters:
//   - ctx: Cancellation scope
//   - src: Data to hash
//   - buf: Scratch buffer, must not be empty
//
// Returns:
//   - uint64: The digest
//   - int64: Number of bytes hashed
//   - error: Read error or ctx.Err()
func Stream(ctx context.Context, src io.Reader, buf []byte) (uint64, int64, error) {
	if len(buf) == 0 {
		return 0, 0, errors.New("hash: empty scratch buffer")
	}

	d := xxhash.New()
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return 0, total, err
		}

		n, err := src.Read(buf)
		if n > 0 {
			_, _ = d.Write(buf[:n])
			total += int64(n)
		}

		if errors.Is(err, io.EOF) {
			return d.Sum64(), total, nil
		}
		if err != nil {
			return 0, total, err
		}
	}
}

// Hex formats a digest as 16 lowercase hex digits.
func Hex(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
