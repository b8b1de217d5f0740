package export

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
)

// TextExporter writes a human-readable copy of a table range.
//
// The output starts with the raw sidecar text (Labels.Preamble) followed by one
// row per point: the wavenumber as %15.5f, a space, and the value as %17.7e.
type TextExporter struct {
	// Dir is the directory the .dat file is written into; it is created if missing.
	Dir string
}

var _ Consumer = (*TextExporter)(nil)

// NewTextExporter creates a text exporter writing into dir.
func NewTextExporter(dir string) *TextExporter {
	return &TextExporter{Dir: dir}
}

// TextFileName returns "{molecule}_{v1}-{v2}_{level}level.dat", where v1 and v2
// are the table bounds truncated to integers.
func TextFileName(l Labels) string {
	return fmt.Sprintf("%s_%s-%s_%dlevel.dat",
		sanitize(l.Molecule), boundLabel(l.Table.Left), boundLabel(l.Table.Right), l.Level)
}

// Path returns the file Consume writes for l.
func (e *TextExporter) Path(l Labels) string {
	return filepath.Join(e.Dir, TextFileName(l))
}

// Consume writes the preamble and every point of res to Path(labels).
func (e *TextExporter) Consume(ctx context.Context, labels Labels, res Result) error {
	if err := checkDir(e.Dir); err != nil {
		return err
	}

	out, err := createAtomic(e.Path(labels))
	if err != nil {
		return fmt.Errorf("text export: %w", err)
	}

	if err := writePreamble(out.w, labels.Preamble); err != nil {
		out.Abort()
		return fmt.Errorf("text export: %w", err)
	}

	if _, err := writeRows(ctx, out.w, res, textRow); err != nil {
		out.Abort()
		return err
	}

	if err := out.Commit(); err != nil {
		return fmt.Errorf("text export: %w", err)
	}

	return nil
}

// writePreamble copies the sidecar text ahead of the rows, ending it with a newline.
func writePreamble(w *bufio.Writer, preamble []byte) error {
	if len(preamble) == 0 {
		return nil
	}

	if _, err := w.Write(preamble); err != nil {
		return err
	}

	if preamble[len(preamble)-1] != '\n' {
		return w.WriteByte('\n')
	}

	return nil
}

func textRow(dst []byte, wavenumber, value float64) []byte {
	dst = appendFixed(dst, wavenumber, 15, 5)
	dst = append(dst, ' ')
	dst = appendExp(dst, value, 17, 7)

	return append(dst, '\n')
}
