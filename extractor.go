package ptbin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/options"
	"github.com/arloliu/ptbin/section"
	"github.com/arloliu/ptbin/spectrum"
	"github.com/arloliu/ptbin/table"
)

// Extent is the wavenumber interval a table was calculated for.
type Extent = section.Extent

// Request describes one extraction.
type Request struct {
	// Left and Right bound the requested wavenumbers in cm⁻¹, Left < Right.
	Left, Right float64
	// Resolution selects the decimation stride. The zero value means ResolutionHigh.
	Resolution format.Resolution
	// Log replaces every value v by log10(v), -Inf for v <= 0.
	Log bool
	// Extent, when set, restricts the request to the table's calculated range.
	Extent *Extent
}

// resolution returns the effective resolution of the request.
func (r Request) resolution() (format.Resolution, error) {
	if r.Resolution == 0 {
		return format.ResolutionHigh, nil
	}

	if !r.Resolution.IsValid() {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidResolution, r.Resolution)
	}

	return r.Resolution, nil
}

// Validate checks the request without touching any file.
//
// Returns:
//   - error: ErrInvalidRange, ErrOutOfTableBounds or ErrInvalidResolution
func (r Request) Validate() error {
	if err := section.CheckRange(r.Left, r.Right); err != nil {
		return err
	}

	if r.Extent != nil {
		if err := r.Extent.Check(r.Left, r.Right); err != nil {
			return err
		}
	}

	_, err := r.resolution()

	return err
}

// Extractor extracts spectral ranges from PT-tables of one layout.
//
// An Extractor holds configuration only and is safe for concurrent use; every
// Extract call opens its own table handle.
type Extractor struct {
	cfg *Config
}

// NewExtractor creates an Extractor.
//
// Parameters:
//   - opts: Optional configuration (WithFormat, WithLogger, WithMmap, WithSequentialHint)
//
// Returns:
//   - *Extractor: The configured extractor
//   - error: ErrInvalidFormat if WithFormat received an unusable layout
func NewExtractor(opts ...Option) (*Extractor, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Extractor{cfg: cfg}, nil
}

// Format returns the table layout the extractor reads.
func (e *Extractor) Format() format.Format { return e.cfg.format }

// Logger returns the extractor's logger.
func (e *Extractor) Logger() *slog.Logger { return e.cfg.logger }

// Extract validates req, addresses it and opens the table at path.
//
// Every check that can fail without reading samples runs here, in order:
// request validation, span computation, opening the table and checking every
// addressed record against the file size. When Extract returns an error no
// file handle is left open. On success the returned Extraction owns the table
// until it is drained or closed.
//
// Parameters:
//   - ctx: Scope of the extraction, checked again between records
//   - path: Table file path
//   - req: The request
//
// Returns:
//   - *Extraction: Lazy result in StateAddressed
//   - error: ErrInvalidRange, ErrOutOfTableBounds, ErrInvalidResolution,
//     ErrTableNotFound, ErrAddressOutOfRange, ErrTruncatedRecord or ctx.Err()
func (e *Extractor) Extract(ctx context.Context, path string, req Request) (*Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, _ := req.resolution()

	span, err := section.ComputeSpan(e.cfg.format, req.Left, req.Right)
	if err != nil {
		return nil, err
	}

	tbl, err := table.Open(path, e.cfg.tableOptions()...)
	if err != nil {
		return nil, err
	}

	if err := tbl.CheckSpan(span); err != nil {
		_ = tbl.Close()
		return nil, err
	}

	e.cfg.logger.Debug("extraction addressed",
		"path", path, "left", req.Left, "right", req.Right,
		"span", span.String(), "records", span.Count(), "resolution", res.String())

	return &Extraction{
		ctx:        ctx,
		path:       path,
		tbl:        tbl,
		format:     e.cfg.format,
		span:       span,
		resolution: res,
		log:        req.Log,
		rc:         spectrum.NewReconstructor(e.cfg.format, res.Stride()),
		logger:     e.cfg.logger,
		state:      StateAddressed,
	}, nil
}
