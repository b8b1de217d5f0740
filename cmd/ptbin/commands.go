package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/arloliu/ptbin"
	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/export"
	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/hash"
	"github.com/arloliu/ptbin/plot"
	"github.com/arloliu/ptbin/sidecar"
	"github.com/arloliu/ptbin/table"
)

const (
	defaultBaseDir     = "output/ptTables"
	defaultTextDir     = "output/processedData"
	defaultPlotDir     = "output/plots"
	defaultPostprocDir = "output/PT_CALC"
	baseDirEnv         = "PTBIN_BASE_DIR"
)

// common holds the flags every command shares.
type common struct {
	base    string
	dir     string
	level   int
	mmap    bool
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	base := os.Getenv(baseDirEnv)
	if base == "" {
		base = defaultBaseDir
	}

	fs.StringVar(&c.base, "base", base, "base directory holding latest_run.txt (env "+baseDirEnv+")")
	fs.StringVar(&c.dir, "dir", "", "run directory; overrides the lookup through latest_run.txt")
	fs.IntVar(&c.level, "level", -1, "atmospheric level, 0..999 (required)")
	fs.BoolVar(&c.mmap, "mmap", false, "memory-map the table instead of reading records")
	fs.BoolVar(&c.verbose, "v", false, "log every record read")
}

func (c *common) runDir() (string, error) {
	if c.dir != "" {
		return c.dir, nil
	}

	return table.LatestRun(c.base)
}

func (c *common) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func (c *common) extractor(stderr io.Writer) (*ptbin.Extractor, error) {
	return ptbin.NewExtractor(
		ptbin.WithLogger(c.logger(stderr)),
		ptbin.WithMmap(c.mmap),
		ptbin.WithSequentialHint(true),
	)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	// the flag package has already reported the problem
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		fs.Usage()

		return errUsage
	}

	return nil
}

// loadRun resolves the run directory, its sidecar and the table path for level.
func loadRun(c *common) (string, *sidecar.Metadata, error) {
	dir, err := c.runDir()
	if err != nil {
		return "", nil, err
	}

	meta, err := sidecar.LoadDir(dir)
	if err != nil {
		return "", nil, err
	}

	if err := meta.Validate(); err != nil {
		return "", nil, err
	}

	path, err := table.TablePath(dir, c.level)
	if err != nil {
		return "", nil, err
	}

	return path, meta, nil
}

func runConvert(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("convert", stderr)
	c.register(fs)
	out := fs.String("out", defaultTextDir, "output directory")
	resolution := fs.String("resolution", "high", "high, medium or coarse")
	kind := fs.String("format", "text", "output format: text or xlsx")
	if err := parse(fs, args); err != nil {
		return err
	}

	res, err := format.ParseResolution(*resolution)
	if err != nil {
		return err
	}

	var (
		consumer export.Consumer
		outPath  func(export.Labels) string
	)
	switch *kind {
	case "text":
		exp := export.NewTextExporter(*out)
		consumer, outPath = exp, exp.Path
	case "xlsx":
		exp := export.NewXLSXExporter(*out)
		consumer, outPath = exp, exp.Path
	default:
		return fmt.Errorf("unknown output format %q, want text or xlsx", *kind)
	}

	path, meta, err := loadRun(&c)
	if err != nil {
		return err
	}

	e, err := c.extractor(stderr)
	if err != nil {
		return err
	}

	extent := meta.Extent()
	ext, err := e.Extract(ctx, path, ptbin.Request{
		Left:       extent.Left,
		Right:      extent.Right,
		Resolution: res,
		Extent:     &extent,
	})
	if err != nil {
		return err
	}

	labels := meta.Labels(c.level, extent.Left, extent.Right)
	if err := ptbin.Run(ctx, ext, labels, consumer); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "absorption data for level %d saved as %s\n", c.level, outPath(labels))

	return nil
}

func runPlot(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("plot", stderr)
	c.register(fs)
	v1 := fs.Float64("v1", math.NaN(), "left wavenumber bound in cm-1")
	v2 := fs.Float64("v2", math.NaN(), "right wavenumber bound in cm-1")
	out := fs.String("out", defaultPlotDir, "output directory")
	resolution := fs.String("resolution", "high", "high, medium or coarse")
	if err := parse(fs, args); err != nil {
		return err
	}

	res, err := format.ParseResolution(*resolution)
	if err != nil {
		return err
	}

	path, meta, err := loadRun(&c)
	if err != nil {
		return err
	}

	// fail on the target before reading any record
	if _, err := plot.AxisTitle(meta.Target); err != nil {
		return err
	}

	e, err := c.extractor(stderr)
	if err != nil {
		return err
	}

	extent := meta.Extent()
	ext, err := e.Extract(ctx, path, ptbin.Request{Left: *v1, Right: *v2, Resolution: res, Extent: &extent})
	if err != nil {
		return err
	}

	r := plot.NewSVGRenderer(*out)
	labels := meta.Labels(c.level, *v1, *v2)
	if err := ptbin.Run(ctx, ext, labels, r); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "plot saved as %s\n", r.Path(labels))

	return nil
}

func runPostprocess(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("postprocess", stderr)
	c.register(fs)
	v1 := fs.Float64("v1", math.NaN(), "left wavenumber bound in cm-1")
	v2 := fs.Float64("v2", math.NaN(), "right wavenumber bound in cm-1")
	ext := fs.String("ext", "CO2", "table file extension, usually the molecule")
	resolution := fs.String("resolution", "", "high, medium or coarse (required)")
	out := fs.String("out", ".", "output directory")
	name := fs.String("name", export.DefaultPostprocessName, "output file name")
	if err := parse(fs, args); err != nil {
		return err
	}

	// postprocess reads calculation output directly, without latest_run.txt
	if c.dir == "" {
		c.dir = defaultPostprocDir
	}

	res, err := format.ParseResolution(*resolution)
	if err != nil {
		return err
	}

	tableName, err := table.TableName(c.level, *ext)
	if err != nil {
		return err
	}
	path := filepath.Join(c.dir, tableName)

	e, err := c.extractor(stderr)
	if err != nil {
		return err
	}

	extraction, err := e.Extract(ctx, path, ptbin.Request{Left: *v1, Right: *v2, Resolution: res, Log: true})
	if err != nil {
		return err
	}

	exp := &export.PostprocessExporter{Dir: *out, Name: *name}
	labels := export.Labels{Molecule: *ext, Level: c.level, Left: *v1, Right: *v2}
	if err := ptbin.Run(ctx, extraction, labels, exp); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "data processing complete, output written to %s\n", exp.Path())

	return nil
}

func runInspect(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("inspect", stderr)
	c.register(fs)
	file := fs.String("file", "", "table file; overrides -dir and -level")
	if err := parse(fs, args); err != nil {
		return err
	}

	path := *file
	var meta *sidecar.Metadata
	if path == "" {
		dir, err := c.runDir()
		if err != nil {
			return err
		}

		if path, err = table.TablePath(dir, c.level); err != nil {
			return err
		}

		// the sidecar is informative here; a missing one is not an error
		if m, err := sidecar.LoadDir(dir); err == nil {
			meta = m
		}
	}

	tbl, err := table.Open(path, table.WithLogger(c.logger(stderr)), table.WithMmap(c.mmap), table.WithSequentialHint(true))
	if err != nil {
		return err
	}
	defer tbl.Close()

	sum, err := tbl.Digest(ctx)
	if err != nil {
		return err
	}

	f := tbl.Format()
	fmt.Fprintf(stdout, "path:        %s\n", tbl.Path())
	fmt.Fprintf(stdout, "size:        %d bytes\n", tbl.Size())
	fmt.Fprintf(stdout, "layout:      %s\n", f)
	fmt.Fprintf(stdout, "records:     %d\n", tbl.NumRecords())
	fmt.Fprintf(stdout, "well-formed: %t\n", tbl.WellFormed())
	if n := tbl.NumRecords(); n > 0 {
		first := f.Base.Origin()
		fmt.Fprintf(stdout, "covers:      [%g, %g] cm-1\n", f.BaseWavenumber(first), f.BaseWavenumber(first+n))

		head, err := tbl.ReadSample(first, 0)
		if err != nil {
			return err
		}
		tail, err := tbl.ReadSample(first+n-1, f.PointsPerRecord-1)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "samples:     first %g, last %g\n", head, tail)
	}
	fmt.Fprintf(stdout, "xxh64:       %s\n", hash.Hex(sum))

	if meta != nil {
		fmt.Fprintf(stdout, "molecule:    %s\n", meta.Molecule)
		fmt.Fprintf(stdout, "sidecar:     %s\n", meta.Extent())
		fmt.Fprintf(stdout, "target:      %s\n", meta.Target)
	}

	return nil
}

// describe turns an error into the message printed before exiting.
func describe(err error) error {
	switch {
	case errors.Is(err, errs.ErrTableNotFound):
		return fmt.Errorf("invalid number of atmospheric level: %w", err)
	case errors.Is(err, errs.ErrAddressOutOfRange):
		return fmt.Errorf("requested range exceeds the table: %w", err)
	case errors.Is(err, errs.ErrOutOfTableBounds):
		return fmt.Errorf("requested range is outside the calculated spectrum: %w", err)
	case errors.Is(err, errs.ErrCorruptSidecar):
		return fmt.Errorf("corrupted info file: %w", err)
	case errors.Is(err, errs.ErrEmptyLatestRun):
		return fmt.Errorf("latest_run.txt is empty: %w", err)
	default:
		return err
	}
}
