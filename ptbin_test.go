package ptbin

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/export"
	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/testutil"
)

func smallExtraction(t *testing.T, left, right float64) *Extraction {
	t.Helper()

	path := testutil.WriteTable(t, testutil.Small, 3, testutil.Ramp)
	e, err := NewExtractor(WithFormat(testutil.Small))
	require.NoError(t, err)

	ext, err := e.Extract(context.Background(), path, Request{Left: left, Right: right})
	require.NoError(t, err)

	return ext
}

func TestRun_TextExporter(t *testing.T) {
	ext := smallExtraction(t, 10, 30)
	dir := t.TempDir()
	exp := export.NewTextExporter(dir)

	labels := export.Labels{
		Molecule: "CO2",
		Level:    1,
		Table:    Extent{Left: 10, Right: 30},
		Preamble: []byte("Input Molecule: CO2\n"),
	}
	require.NoError(t, Run(context.Background(), ext, labels, exp))

	data, err := os.ReadFile(exp.Path(labels))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 11)
	require.Equal(t, "Input Molecule: CO2", lines[0])
	require.Equal(t, "       10.00000     1.0000000e+03", lines[1])
	require.Equal(t, "       20.00000     2.0000000e+03", lines[6])
}

func TestRun_PassesResolution(t *testing.T) {
	ext := smallExtraction(t, 10, 20)

	var got format.Resolution
	consumer := export.ConsumerFunc(func(_ context.Context, labels export.Labels, res export.Result) error {
		got = labels.Resolution
		for range res.All() {
		}
		return res.Err()
	})

	require.NoError(t, Run(context.Background(), ext, export.Labels{}, consumer))
	require.Equal(t, format.ResolutionHigh, got)
	require.Nil(t, ext.tbl)
}

func TestRun_ConsumerError(t *testing.T) {
	ext := smallExtraction(t, 10, 30)
	boom := errors.New("boom")

	err := Run(context.Background(), ext, export.Labels{}, export.ConsumerFunc(
		func(context.Context, export.Labels, export.Result) error { return boom }))
	require.ErrorIs(t, err, boom)
	require.Nil(t, ext.tbl, "Run closes an extraction the consumer never drained")
}

func TestRun_ExtractionErrorWins(t *testing.T) {
	ext := smallExtraction(t, 10, 40)
	require.NoError(t, os.Truncate(ext.Path(), 30))

	// a consumer that ignores res.Err still cannot hide the failure
	err := Run(context.Background(), ext, export.Labels{}, export.ConsumerFunc(
		func(_ context.Context, _ export.Labels, res export.Result) error {
			for range res.All() {
			}
			return nil
		}))
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)
}

func TestCollect_Consumed(t *testing.T) {
	ext := smallExtraction(t, 10, 20)

	_, _, err := Collect(ext)
	require.NoError(t, err)

	_, err = CollectPoints(ext)
	require.ErrorIs(t, err, errs.ErrConsumed)
}
