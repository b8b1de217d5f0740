package plot

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/export"
	"github.com/arloliu/ptbin/spectrum"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

const (
	marginLeft   = 90.0
	marginRight  = 30.0
	marginTop    = 70.0
	marginBottom = 60.0
	tickCount    = 6
)

// AxisTitle returns the y-axis title for a target value.
//
// Returns:
//   - string: The axis title
//   - error: ErrUnknownTarget for anything but "ACS" and "VAC"
func AxisTitle(target string) (string, error) {
	switch target {
	case "ACS":
		return "Absorption Cross-Section [cm² mol⁻¹]", nil
	case "VAC":
		return "Volume Absorption Coefficient [km⁻¹]", nil
	default:
		return "", fmt.Errorf("%w: %q", errs.ErrUnknownTarget, target)
	}
}

// FileName returns "{molecule}_{left}-{right}_{target}.svg" with the requested
// bounds truncated to integers.
func FileName(l export.Labels) string {
	return fmt.Sprintf("%s_%d-%d_%s.svg", strings.TrimSpace(l.Molecule), int64(l.Left), int64(l.Right), l.Target)
}

// Title returns the two title lines of a plot.
func Title(l export.Labels) (string, string) {
	return fmt.Sprintf("Absorption spectrum of %s at %d level of atmosphere %s", l.Molecule, l.Level, l.Profile),
		fmt.Sprintf("Cutoff is %s cm-1", l.Cutoff)
}

// SVGRenderer is an export.Consumer drawing the spectrum into an SVG file.
//
// Points are buffered in memory to scale the axes, so it is meant for the
// narrow ranges that are plotted interactively.
type SVGRenderer struct {
	// Dir is the output directory; it is created if missing.
	Dir string
	// Width and Height of the canvas in pixels. Zero means the defaults.
	Width, Height int
}

var _ export.Consumer = (*SVGRenderer)(nil)

// NewSVGRenderer creates a renderer writing into dir.
func NewSVGRenderer(dir string) *SVGRenderer {
	return &SVGRenderer{Dir: dir}
}

// Path returns the file Consume writes for l.
func (r *SVGRenderer) Path(l export.Labels) string {
	return filepath.Join(r.Dir, FileName(l))
}

// Consume draws res. Values are expected untransformed; the log10 is applied
// here.
func (r *SVGRenderer) Consume(ctx context.Context, labels export.Labels, res export.Result) error {
	yTitle, err := AxisTitle(labels.Target)
	if err != nil {
		return err
	}

	var xs, ys []float64
	for _, p := range res.All() {
		y := spectrum.Log10(p.Value)
		if math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, p.Wavenumber)
		ys = append(ys, y)
	}

	if err := res.Err(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	f, err := os.CreateTemp(r.Dir, ".plot-*.svg")
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	w := bufio.NewWriter(f)
	title, subtitle := Title(labels)
	r.render(w, chart{
		title:    title,
		subtitle: subtitle,
		xTitle:   "Wavenumber [cm⁻¹]",
		yTitle:   yTitle,
		xs:       xs,
		ys:       ys,
	})

	if err := w.Flush(); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	if err := os.Rename(f.Name(), r.Path(labels)); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	return nil
}

type chart struct {
	title, subtitle string
	xTitle, yTitle  string
	xs, ys          []float64
}

func (r *SVGRenderer) size() (float64, float64) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}

	return float64(w), float64(h)
}

func (r *SVGRenderer) render(w io.Writer, c chart) {
	width, height := r.size()
	plotW := width - marginLeft - marginRight
	plotH := height - marginTop - marginBottom

	xmin, xmax := bounds(c.xs)
	ymin, ymax := bounds(c.ys)
	sx := func(x float64) float64 { return marginLeft + (x-xmin)/(xmax-xmin)*plotW }
	sy := func(y float64) float64 { return marginTop + plotH - (y-ymin)/(ymax-ymin)*plotH }

	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g" font-family="sans-serif">`+"\n",
		width, height, width, height)
	fmt.Fprintf(w, `<rect width="%g" height="%g" fill="white"/>`+"\n", width, height)
	fmt.Fprintf(w, `<text x="%g" y="28" text-anchor="middle" font-size="15">%s</text>`+"\n", width/2, html.EscapeString(c.title))
	fmt.Fprintf(w, `<text x="%g" y="48" text-anchor="middle" font-size="13">%s</text>`+"\n", width/2, html.EscapeString(c.subtitle))

	// grid and tick labels
	fmt.Fprintln(w, `<g stroke="gray" stroke-opacity="0.5" stroke-width="1">`)
	for i := range tickCount {
		fx := marginLeft + plotW*float64(i)/float64(tickCount-1)
		fy := marginTop + plotH*float64(i)/float64(tickCount-1)
		fmt.Fprintf(w, `<line x1="%.2f" y1="%g" x2="%.2f" y2="%g"/>`+"\n", fx, marginTop, fx, marginTop+plotH)
		fmt.Fprintf(w, `<line x1="%g" y1="%.2f" x2="%g" y2="%.2f"/>`+"\n", marginLeft, fy, marginLeft+plotW, fy)
	}
	fmt.Fprintln(w, `</g>`)

	fmt.Fprintln(w, `<g font-size="11" fill="black">`)
	for i := range tickCount {
		t := float64(i) / float64(tickCount-1)
		fmt.Fprintf(w, `<text x="%.2f" y="%g" text-anchor="middle">%s</text>`+"\n",
			marginLeft+plotW*t, marginTop+plotH+18, tickLabel(xmin+(xmax-xmin)*t))
		fmt.Fprintf(w, `<text x="%g" y="%.2f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			marginLeft-8, marginTop+plotH*(1-t), tickLabel(ymin+(ymax-ymin)*t))
	}
	fmt.Fprintln(w, `</g>`)

	fmt.Fprintf(w, `<rect x="%g" y="%g" width="%g" height="%g" fill="none" stroke="black"/>`+"\n",
		marginLeft, marginTop, plotW, plotH)
	fmt.Fprintf(w, `<text x="%g" y="%g" text-anchor="middle" font-size="13">%s</text>`+"\n",
		marginLeft+plotW/2, height-15, html.EscapeString(c.xTitle))
	fmt.Fprintf(w, `<text x="20" y="%g" text-anchor="middle" font-size="13" transform="rotate(-90 20 %g)">%s</text>`+"\n",
		marginTop+plotH/2, marginTop+plotH/2, html.EscapeString(c.yTitle))

	if len(c.xs) > 0 {
		fmt.Fprint(w, `<polyline fill="none" stroke="green" stroke-width="1" points="`)
		for i := range c.xs {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%.2f,%.2f", sx(c.xs[i]), sy(c.ys[i]))
		}
		fmt.Fprintln(w, `"/>`)
	}

	fmt.Fprintln(w, `</svg>`)
}

// bounds returns the range of vs, widened when it is empty or degenerate so
// the scale never divides by zero.
func bounds(vs []float64) (float64, float64) {
	if len(vs) == 0 {
		return 0, 1
	}

	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	if lo == hi {
		return lo - 0.5, hi + 0.5
	}

	return lo, hi
}

func tickLabel(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
