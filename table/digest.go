package table

import (
	"context"
	"io"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/internal/hash"
	"github.com/arloliu/ptbin/internal/pool"
)

// Digest returns the xxHash64 of the whole table file.
//
// Two runs that produced identical absorption data yield identical digests,
// which is what the inspect command compares. ctx is checked between chunks.
func (t *Table) Digest(ctx context.Context) (uint64, error) {
	if t.src == nil {
		return 0, errs.ErrTableClosed
	}

	bb, buf := pool.GetDigestBuffer()
	defer pool.PutDigestBuffer(bb)

	sum, _, err := hash.Stream(ctx, io.NewSectionReader(t.src, 0, t.size), buf)

	return sum, err
}
