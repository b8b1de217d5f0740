package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultPostprocessName is the file name read by the downstream spectrum plotter.
const DefaultPostprocessName = "SPECTR"

// PostprocessExporter writes the two-column dump consumed by the legacy
// post-processing tools:
//
//	               1       20490
//	      100.00000        -21.3456789
//	      100.00049        -21.3456012
//
// The header holds the block count (always 1) as %16d and the number of rows
// as %12d. Rows hold the wavenumber as %15.5f and the value as %17.7f; values
// are written as given, so extract with the log transform enabled.
//
// The row count is only known once the result is drained, so rows are staged
// in a temporary file and appended behind the header on completion.
type PostprocessExporter struct {
	// Dir is the output directory; it is created if missing.
	Dir string
	// Name is the output file name. Empty means DefaultPostprocessName.
	Name string
}

var _ Consumer = (*PostprocessExporter)(nil)

// NewPostprocessExporter creates a post-processing exporter writing
// DefaultPostprocessName into dir.
func NewPostprocessExporter(dir string) *PostprocessExporter {
	return &PostprocessExporter{Dir: dir}
}

// Path returns the output file path.
func (e *PostprocessExporter) Path() string {
	name := e.Name
	if name == "" {
		name = DefaultPostprocessName
	}

	return filepath.Join(e.Dir, name)
}

// Consume drains res into the staging file, then writes header and rows to Path.
func (e *PostprocessExporter) Consume(ctx context.Context, _ Labels, res Result) error {
	if err := checkDir(e.Dir); err != nil {
		return err
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("postprocess export: %w", err)
	}

	staging, err := os.CreateTemp(e.Dir, ".spectr-rows-*")
	if err != nil {
		return fmt.Errorf("postprocess export: %w", err)
	}
	defer func() {
		_ = staging.Close()
		_ = os.Remove(staging.Name())
	}()

	sw := bufio.NewWriterSize(staging, 64*1024)
	total, err := writeRows(ctx, sw, res, postprocessRow)
	if err != nil {
		return err
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("postprocess export: %w", err)
	}

	if _, err := staging.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("postprocess export: %w", err)
	}

	out, err := createAtomic(e.Path())
	if err != nil {
		return fmt.Errorf("postprocess export: %w", err)
	}

	if _, err := fmt.Fprintf(out.w, "%16d%12d\n", 1, total); err != nil {
		out.Abort()
		return fmt.Errorf("postprocess export: %w", err)
	}

	if _, err := io.Copy(out.w, staging); err != nil {
		out.Abort()
		return fmt.Errorf("postprocess export: %w", err)
	}

	if err := out.Commit(); err != nil {
		return fmt.Errorf("postprocess export: %w", err)
	}

	return nil
}

func postprocessRow(dst []byte, wavenumber, value float64) []byte {
	dst = appendFixed(dst, wavenumber, 15, 5)
	dst = append(dst, ' ')
	dst = appendFixed(dst, value, 17, 7)

	return append(dst, '\n')
}
