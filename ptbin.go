// Package ptbin extracts spectral ranges from PT-tables.
//
// A PT-table is a headerless binary file of fixed-size records. Each record
// holds 20481 little-endian float32 absorption values sampled evenly over
// 10 cm⁻¹ of the spectrum, and tables are typically gigabytes large. ptbin
// reads only the records covering a requested wavenumber interval and turns
// them into (wavenumber, value) points.
//
// # Core Features
//
//   - Record addressing from wavenumber bounds, with every record checked
//     against the file size before the first point is produced
//   - Lazy, pull-based output: memory is bounded by one record
//   - Decimation profiles (high, medium, coarse) and an optional log10 transform
//   - Optional memory-mapped reads and sequential read-ahead hints
//   - Context cancellation between records
//
// # Basic Usage
//
// Extracting 100-120 cm⁻¹ at full resolution:
//
//	ext, err := ptbin.Extract(ctx, "output/ptTables/run1/1__.ptbin", ptbin.Request{
//	    Left:  100,
//	    Right: 120,
//	})
//	if err != nil {
//	    return err
//	}
//	defer ext.Close()
//
//	for _, p := range ext.All() {
//	    fmt.Printf("%.5f %e\n", p.Wavenumber, p.Value)
//	}
//	if err := ext.Err(); err != nil {
//	    return err // discard what was printed
//	}
//
// Handing the result to an output writer:
//
//	labels := export.Labels{Molecule: "CO2", Level: 1, Left: 100, Right: 120}
//	err = ptbin.Run(ctx, ext, labels, export.NewTextExporter("output/processedData"))
//
// # Package Structure
//
// This package wires the building blocks together. section computes record
// spans and offsets, table reads records, spectrum reconstructs wavenumbers and
// applies decimation and log10, and export and plot implement the consumers.
package ptbin

import (
	"context"

	"github.com/arloliu/ptbin/export"
	"github.com/arloliu/ptbin/spectrum"
)

var _ export.Result = (*Extraction)(nil)

// Extract runs req against the table at path with default settings.
//
// It is equivalent to creating an Extractor without options and calling its
// Extract method.
func Extract(ctx context.Context, path string, req Request) (*Extraction, error) {
	e, err := NewExtractor()
	if err != nil {
		return nil, err
	}

	return e.Extract(ctx, path, req)
}

// Collect drains ext into separate wavenumber and value slices.
//
// Collect materializes the whole result and is meant for narrow ranges and
// tests. On failure the partial data is dropped and the terminal error returned.
func Collect(ext *Extraction) ([]float64, []float64, error) {
	n := ext.ExpectedPoints()
	wavenumbers := make([]float64, 0, n)
	values := make([]float64, 0, n)

	for _, p := range ext.All() {
		wavenumbers = append(wavenumbers, p.Wavenumber)
		values = append(values, p.Value)
	}

	if err := ext.Err(); err != nil {
		return nil, nil, err
	}

	return wavenumbers, values, nil
}

// CollectPoints drains ext into a slice of points. See Collect.
func CollectPoints(ext *Extraction) ([]spectrum.Point, error) {
	points := make([]spectrum.Point, 0, ext.ExpectedPoints())
	for _, p := range ext.All() {
		points = append(points, p)
	}

	if err := ext.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// Run hands ext to consumer and closes ext afterwards.
//
// The consumer is responsible for checking ext.Err() once the sequence ends and
// for not committing output when it is non-nil.
func Run(ctx context.Context, ext *Extraction, labels export.Labels, consumer export.Consumer) error {
	defer ext.Close()

	if labels.Resolution == 0 {
		labels.Resolution = ext.Resolution()
	}

	if err := consumer.Consume(ctx, labels, ext); err != nil {
		return err
	}

	return ext.Err()
}
