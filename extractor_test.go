package ptbin

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/testutil"
	"github.com/arloliu/ptbin/section"
)

// writeDefaultTable writes records 1..11 of the reference layout, enough to
// serve every request below 110 cm⁻¹ + W.
func writeDefaultTable(t *testing.T) string {
	t.Helper()
	return testutil.WriteTable(t, format.Default, 11, testutil.Ramp)
}

func TestExtract_TwoRecords(t *testing.T) {
	path := writeDefaultTable(t)

	ext, err := Extract(context.Background(), path, Request{Left: 100, Right: 120})
	require.NoError(t, err)
	require.Equal(t, StateAddressed, ext.State())
	require.Equal(t, section.Span{Start: 10, End: 11}, ext.Span())
	require.Equal(t, format.ResolutionHigh, ext.Resolution())
	require.Equal(t, int64(2*20481), ext.ExpectedPoints())

	wavenumbers, values, err := Collect(ext)
	require.NoError(t, err)
	require.Equal(t, StateDone, ext.State())
	require.Len(t, wavenumbers, 2*20481)
	require.Len(t, values, 2*20481)

	require.Equal(t, 100.0, wavenumbers[0])
	require.InDelta(t, 0.0004883, wavenumbers[1]-wavenumbers[0], 1e-7)
	require.Equal(t, 10000.0, values[0])
	require.Equal(t, 10000.0+20480, values[20480])

	// second record starts on its own base; the seam repeats 110 cm⁻¹
	require.Equal(t, 110.0, wavenumbers[20481])
	require.InDelta(t, 110.0, wavenumbers[20480], 1e-9)
	require.Equal(t, 11000.0, values[20481])

	require.Nil(t, ext.tbl, "table is closed after iteration")
}

func TestExtract_SubRecordRange(t *testing.T) {
	path := writeDefaultTable(t)

	ext, err := Extract(context.Background(), path, Request{Left: 105, Right: 106})
	require.NoError(t, err)
	require.Equal(t, int64(1), ext.Span().Count())

	points, err := CollectPoints(ext)
	require.NoError(t, err)
	require.Len(t, points, 20481, "a whole record is returned, not clipped to the request")
	require.Equal(t, 100.0, points[0].Wavenumber)
}

func TestExtract_InvalidRangeDoesNoIO(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.ptbin")

	_, err := Extract(context.Background(), missing, Request{Left: 120, Right: 100})
	require.ErrorIs(t, err, errs.ErrInvalidRange)

	_, err = Extract(context.Background(), missing, Request{Left: 100, Right: 100})
	require.ErrorIs(t, err, errs.ErrInvalidRange)

	_, err = Extract(context.Background(), missing, Request{Left: -10, Right: 100})
	require.ErrorIs(t, err, errs.ErrInvalidRange)

	_, err = Extract(context.Background(), missing, Request{Left: 100, Right: math.Inf(1)})
	require.ErrorIs(t, err, errs.ErrInvalidRange)

	_, err = Extract(context.Background(), missing, Request{Left: 100, Right: 120})
	require.ErrorIs(t, err, errs.ErrTableNotFound)
}

func TestExtract_Decimated(t *testing.T) {
	path := writeDefaultTable(t)

	ext, err := Extract(context.Background(), path, Request{Left: 100, Right: 110, Resolution: format.ResolutionMedium})
	require.NoError(t, err)
	require.InDelta(t, 0.004883, ext.Step(), 1e-6)

	points, err := CollectPoints(ext)
	require.NoError(t, err)
	require.Len(t, points, 2049)
	require.Equal(t, 100.0, points[0].Wavenumber)
	require.Equal(t, 10010.0, points[1].Value)

	ext, err = Extract(context.Background(), path, Request{Left: 100, Right: 110, Resolution: format.ResolutionCoarse})
	require.NoError(t, err)
	points, err = CollectPoints(ext)
	require.NoError(t, err)
	require.Len(t, points, 205)
}

func TestExtract_InvalidResolution(t *testing.T) {
	_, err := Extract(context.Background(), "unused", Request{Left: 100, Right: 110, Resolution: format.Resolution(9)})
	require.ErrorIs(t, err, errs.ErrInvalidResolution)
}

func TestExtract_Extent(t *testing.T) {
	path := writeDefaultTable(t)
	extent := &Extent{Left: 100, Right: 115}

	_, err := Extract(context.Background(), path, Request{Left: 100, Right: 120, Extent: extent})
	require.ErrorIs(t, err, errs.ErrOutOfTableBounds)

	ext, err := Extract(context.Background(), path, Request{Left: 100, Right: 115, Extent: extent})
	require.NoError(t, err)
	require.NoError(t, ext.Close())
}

func TestExtract_AddressOutOfRange(t *testing.T) {
	path := testutil.WriteTable(t, testutil.Small, 3, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small))
	require.NoError(t, err)

	// records 1..4, the table holds 1..3
	ext, err := e.Extract(context.Background(), path, Request{Left: 10, Right: 45})
	require.ErrorIs(t, err, errs.ErrAddressOutOfRange)
	require.Nil(t, ext, "no points can be produced for a span leaving the file")

	// record 0 has no byte position in a 1-based table
	_, err = e.Extract(context.Background(), path, Request{Left: 5, Right: 15})
	require.ErrorIs(t, err, errs.ErrAddressOutOfRange)
}

func TestExtract_BoundsBeyondAddressableRecords(t *testing.T) {
	unit := format.Format{PointsPerRecord: 5, RecordSpan: 1, Base: format.OneBased}
	path := testutil.WriteTable(t, unit, 2100, testutil.Ramp)
	e, err := NewExtractor(WithFormat(unit))
	require.NoError(t, err)

	left := math.Ldexp(1, 62) + 1024
	ext, err := e.Extract(context.Background(), path, Request{Left: left, Right: left + 1024})
	require.ErrorIs(t, err, errs.ErrInvalidRange)
	require.Nil(t, ext)

	ext, err = Extract(context.Background(), writeDefaultTable(t), Request{Left: 4.6e19, Right: 4.7e19})
	require.ErrorIs(t, err, errs.ErrInvalidRange)
	require.Nil(t, ext)
}

func TestExtract_ZeroBased(t *testing.T) {
	f := testutil.Small
	f.Base = format.ZeroBased
	path := testutil.WriteTable(t, f, 2, testutil.Ramp)

	e, err := NewExtractor(WithFormat(f))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: 5, Right: 15})
	require.NoError(t, err)

	points, err := CollectPoints(ext)
	require.NoError(t, err)
	require.Len(t, points, 10)
	require.Equal(t, 0.0, points[0].Wavenumber)
	require.Equal(t, 1000.0, points[5].Value)
}

func TestExtract_EmptySpan(t *testing.T) {
	path := writeDefaultTable(t)

	ext, err := Extract(context.Background(), path, Request{Left: 100, Right: 100.5})
	require.NoError(t, err)
	require.True(t, ext.Span().Empty())

	points, err := CollectPoints(ext)
	require.NoError(t, err)
	require.Empty(t, points)
	require.Equal(t, StateDone, ext.State())
}

func TestExtract_Log(t *testing.T) {
	zeroFirst := func(r int64, i int) float32 {
		if i == 0 {
			return 0
		}
		return testutil.Ramp(r, i)
	}
	path := testutil.WriteTable(t, testutil.Small, 2, zeroFirst)

	e, err := NewExtractor(WithFormat(testutil.Small))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: 10, Right: 20, Log: true})
	require.NoError(t, err)

	points, err := CollectPoints(ext)
	require.NoError(t, err)
	require.Len(t, points, 5)
	require.True(t, math.IsInf(points[0].Value, -1))
	require.InDelta(t, math.Log10(1001), points[1].Value, 1e-12)
}

func TestExtraction_OneShot(t *testing.T) {
	path := testutil.WriteTable(t, testutil.Small, 2, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: 10, Right: 30})
	require.NoError(t, err)

	n := 0
	for range ext.All() {
		n++
	}
	require.Equal(t, 10, n)
	require.NoError(t, ext.Err())

	for range ext.All() {
		t.Fatal("a drained extraction must not yield again")
	}
	require.ErrorIs(t, ext.Err(), errs.ErrConsumed)
}

func TestExtraction_EarlyBreak(t *testing.T) {
	path := testutil.WriteTable(t, testutil.Small, 3, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: 10, Right: 40})
	require.NoError(t, err)

	var indices []int
	for i := range ext.All() {
		indices = append(indices, i)
		if i == 6 {
			break
		}
	}

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, indices)
	require.NoError(t, ext.Err())
	require.Equal(t, StateDone, ext.State())
	require.Nil(t, ext.tbl)
	require.NoError(t, ext.Close())
}

func TestExtraction_Cancelled(t *testing.T) {
	path := testutil.WriteTable(t, testutil.Small, 3, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ext, err := e.Extract(ctx, path, Request{Left: 10, Right: 40})
	require.NoError(t, err)

	n := 0
	for range ext.All() {
		n++
		cancel()
	}

	require.Equal(t, 5, n, "the current record finishes, the next one is not read")
	require.ErrorIs(t, ext.Err(), context.Canceled)
	require.Equal(t, StateFailed, ext.State())
	require.Nil(t, ext.tbl)

	_, err = e.Extract(ctx, path, Request{Left: 10, Right: 40})
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtraction_TruncatedWhileReading(t *testing.T) {
	path := testutil.WriteTable(t, testutil.Small, 3, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: 10, Right: 40})
	require.NoError(t, err)

	// the size was checked at open; shrinking the file afterwards surfaces as a short read
	require.NoError(t, os.Truncate(path, 50))

	wavenumbers, values, err := Collect(ext)
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)
	require.Nil(t, wavenumbers)
	require.Nil(t, values)
	require.Equal(t, StateFailed, ext.State())
}

func TestExtraction_CloseWithoutIterating(t *testing.T) {
	path := testutil.WriteTable(t, testutil.Small, 2, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small), WithMmap(true))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: 10, Right: 30})
	require.NoError(t, err)

	require.NoError(t, ext.Close())
	require.NoError(t, ext.Close())
	require.Equal(t, StateDone, ext.State())

	for range ext.All() {
		t.Fatal("a closed extraction must not yield")
	}
	require.ErrorIs(t, ext.Err(), errs.ErrConsumed)
}

func TestExtractor_Options(t *testing.T) {
	_, err := NewExtractor(WithFormat(format.Format{PointsPerRecord: 1, RecordSpan: 10}))
	require.ErrorIs(t, err, errs.ErrInvalidFormat)

	e, err := NewExtractor(WithLogger(nil))
	require.NoError(t, err)
	require.Equal(t, format.Default, e.Format())
	require.NotNil(t, e.Logger())
}

func TestExtractor_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	path := testutil.WriteTable(t, testutil.Small, 2, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small), WithLogger(logger), WithSequentialHint(true))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: 10, Right: 30})
	require.NoError(t, err)
	_, err = CollectPoints(ext)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `msg="processing record" record=1 offset=0`)
	require.Contains(t, out, `msg="processing record" record=2 offset=20`)
	require.Contains(t, out, `msg="extraction complete"`)
	require.Contains(t, out, "points=10")
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "addressed", StateAddressed.String())
	require.Equal(t, "reading", StateReading.String())
	require.Equal(t, "reconstructing", StateReconstructing.String())
	require.Equal(t, "done", StateDone.String())
	require.Equal(t, "failed", StateFailed.String())
	require.Equal(t, "unknown", State(42).String())

	require.True(t, StateFailed.Terminal())
	require.False(t, StateReading.Terminal())
}
