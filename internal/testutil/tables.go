// Package testutil builds synthetic PT-tables for tests.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/ptbin/format"
)

// ValueFunc returns the sample stored at position i of record r.
type ValueFunc func(r int64, i int) float32

// Small is a tiny layout for tests: 5 samples spanning 10 cm⁻¹, 1-based.
var Small = format.Format{
	PointsPerRecord: 5,
	RecordSpan:      10,
	Base:            format.OneBased,
}

// Ramp encodes the record index and sample position into the value so tests can
// tell exactly which sample was returned: r*1000 + i.
func Ramp(r int64, i int) float32 {
	return float32(r*1000) + float32(i)
}

// EncodeRecords encodes count records, starting with the record stored at byte
// offset zero, in the byte order of f.
func EncodeRecords(f format.Format, count int64, value ValueFunc) []byte {
	engine := f.Engine()
	buf := make([]byte, 0, count*int64(f.RecordSize()))
	first := f.Base.Origin()

	for r := first; r < first+count; r++ {
		for i := range f.PointsPerRecord {
			buf = engine.AppendUint32(buf, math.Float32bits(value(r, i)))
		}
	}

	return buf
}

// WriteTable writes a table of count records into a temporary directory and
// returns its path.
func WriteTable(tb testing.TB, f format.Format, count int64, value ValueFunc) string {
	tb.Helper()

	return WriteRaw(tb, "1__.ptbin", EncodeRecords(f, count, value))
}

// WriteRaw writes data to name inside a temporary directory and returns the path.
func WriteRaw(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write table: %v", err)
	}

	return path
}
