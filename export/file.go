package export

import (
	"bufio"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// atomicFile is a buffered temporary file that becomes dst on Commit.
type atomicFile struct {
	f   *os.File
	w   *bufio.Writer
	dst string
}

func createAtomic(dst string) (*atomicFile, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(dst)+"-*")
	if err != nil {
		return nil, err
	}

	return &atomicFile{f: f, w: bufio.NewWriterSize(f, 64*1024), dst: dst}, nil
}

// Commit flushes, closes and renames the file into place.
func (a *atomicFile) Commit() error {
	if err := a.w.Flush(); err != nil {
		a.Abort()
		return err
	}

	if err := a.f.Close(); err != nil {
		_ = os.Remove(a.f.Name())
		return err
	}

	if err := os.Rename(a.f.Name(), a.dst); err != nil {
		_ = os.Remove(a.f.Name())
		return err
	}

	return nil
}

// Abort discards the file. It is safe to call after Commit failed.
func (a *atomicFile) Abort() {
	_ = a.f.Close()
	_ = os.Remove(a.f.Name())
}

// appendFixed formats v like Fortran/Python "%{width}.{prec}f", spelling
// infinities as "inf" and "-inf".
func appendFixed(dst []byte, v float64, width, prec int) []byte {
	return pad(dst, formatFloat(v, 'f', prec), width)
}

// appendExp formats v like "%{width}.{prec}e" with a two-digit minimum exponent.
func appendExp(dst []byte, v float64, width, prec int) []byte {
	return pad(dst, formatFloat(v, 'e', prec), width)
}

func formatFloat(v float64, fmtc byte, prec int) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsNaN(v):
		return "nan"
	}

	return strconv.FormatFloat(v, fmtc, prec, 64)
}

func pad(dst []byte, s string, width int) []byte {
	if n := width - len(s); n > 0 {
		dst = append(dst, strings.Repeat(" ", n)...)
	}

	return append(dst, s...)
}

// boundLabel renders a wavenumber bound the way output file names carry it:
// truncated to an integer.
func boundLabel(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}

var errNoDir = errors.New("export: output directory is not set")

func checkDir(dir string) error {
	if dir == "" {
		return errNoDir
	}

	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == filepath.Separator {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
}

// ctxCheckInterval is the number of points written between context checks.
const ctxCheckInterval = 4096

// writeRows drains res into w, one formatted row per point, and returns the
// number of rows written. It stops at the first write error or cancellation.
func writeRows(ctx context.Context, w *bufio.Writer, res Result, row func([]byte, float64, float64) []byte) (int, error) {
	buf := make([]byte, 0, 64)
	n := 0

	for _, p := range res.All() {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}

		buf = row(buf[:0], p.Wavenumber, p.Value)
		if _, err := w.Write(buf); err != nil {
			return n, err
		}
		n++
	}

	if err := res.Err(); err != nil {
		return n, err
	}

	return n, ctx.Err()
}
