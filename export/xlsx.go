package export

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// MaxSheetRows is the row limit of a spreadsheet worksheet.
const MaxSheetRows = 1048576

// xlsxHeaderRows is the number of rows written before the data.
const xlsxHeaderRows = 2

// ErrSheetFull is returned when a result has more points than fit in one worksheet.
var ErrSheetFull = errors.New("export: result exceeds the worksheet row limit")

// XLSXExporter writes a spectrum into a spreadsheet workbook.
//
// The sheet holds a title row with molecule, level and table bounds, a column
// header row, and one row per point. Values without a finite representation,
// such as the -Inf produced by log10 of zero, are left as empty cells.
type XLSXExporter struct {
	// Dir is the output directory; it is created if missing.
	Dir string
	// Sheet is the worksheet name. Empty means the workbook's default sheet.
	Sheet string
}

var _ Consumer = (*XLSXExporter)(nil)

// NewXLSXExporter creates a spreadsheet exporter writing into dir.
func NewXLSXExporter(dir string) *XLSXExporter {
	return &XLSXExporter{Dir: dir}
}

// XLSXFileName returns the TextFileName of l with an .xlsx extension.
func XLSXFileName(l Labels) string {
	name := TextFileName(l)
	return name[:len(name)-len(filepath.Ext(name))] + ".xlsx"
}

// Path returns the file Consume writes for l.
func (e *XLSXExporter) Path(l Labels) string {
	return filepath.Join(e.Dir, XLSXFileName(l))
}

// Consume streams the points of res into a new workbook at Path(labels).
func (e *XLSXExporter) Consume(ctx context.Context, labels Labels, res Result) error {
	if err := checkDir(e.Dir); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if e.Sheet != "" && e.Sheet != sheet {
		idx, err := f.NewSheet(e.Sheet)
		if err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		f.SetActiveSheet(idx)
		sheet = e.Sheet
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	title := fmt.Sprintf("%s level %d, table %s", labels.Molecule, labels.Level, labels.Table)
	if err := sw.SetRow("A1", []any{title}); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	if err := sw.SetRow("A2", []any{"Wavenumber [cm-1]", "Value"}); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	row := xlsxHeaderRows
	for _, p := range res.All() {
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		row++
		if row > MaxSheetRows {
			return fmt.Errorf("%w: more than %d points", ErrSheetFull, MaxSheetRows-xlsxHeaderRows)
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		if err := sw.SetRow(cell, []any{p.Wavenumber, cellValue(p.Value)}); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
	}

	if err := res.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	out, err := createAtomic(e.Path(labels))
	if err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	if err := f.Write(out.w); err != nil {
		out.Abort()
		return fmt.Errorf("xlsx export: %w", err)
	}

	if err := out.Commit(); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	return nil
}

func cellValue(v float64) any {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}

	return v
}
