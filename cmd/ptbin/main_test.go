package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/hash"
	"github.com/arloliu/ptbin/internal/testutil"
)

const runInfo = `Start Wavenumber: 100
End Wavenumber: 110
Input Molecule: CO2
Cut Off: 25
Target Value: VAC
Atmospheric Profile File: tropical.dat
`

// setupRun lays out base/latest_run.txt -> base/run1 with a sidecar and the
// level 3 table holding records 1..11 of the reference layout.
func setupRun(t *testing.T) (string, []byte) {
	t.Helper()

	base := t.TempDir()
	run := filepath.Join(base, "run1")
	require.NoError(t, os.MkdirAll(run, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "latest_run.txt"), []byte("run1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(run, "info.txt"), []byte(runInfo), 0o600))

	data := testutil.EncodeRecords(format.Default, 11, testutil.Ramp)
	require.NoError(t, os.WriteFile(filepath.Join(run, "3__.ptbin"), data, 0o600))

	return base, data
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestConvert(t *testing.T) {
	base, _ := setupRun(t)
	out := t.TempDir()

	stdout, _, err := runCLI(t, "convert", "-base", base, "-level", "3", "-out", out)
	require.NoError(t, err)

	path := filepath.Join(out, "CO2_100-110_3level.dat")
	require.Contains(t, stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	require.True(t, strings.HasPrefix(text, runInfo))

	rows := strings.Split(strings.TrimSuffix(strings.TrimPrefix(text, runInfo), "\n"), "\n")
	require.Len(t, rows, 20481)
	require.Equal(t, "      100.00000     1.0000000e+04", rows[0])
}

func TestConvert_XLSX(t *testing.T) {
	base, _ := setupRun(t)
	out := t.TempDir()

	stdout, _, err := runCLI(t, "convert", "-base", base, "-level", "3", "-out", out, "-format", "xlsx", "-resolution", "coarse")
	require.NoError(t, err)

	path := filepath.Join(out, "CO2_100-110_3level.xlsx")
	require.Contains(t, stdout, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	_, _, err = runCLI(t, "convert", "-base", base, "-level", "3", "-out", out, "-format", "csv")
	require.ErrorContains(t, err, `unknown output format "csv"`)
}

func TestPlot(t *testing.T) {
	base, _ := setupRun(t)
	out := t.TempDir()

	stdout, _, err := runCLI(t, "plot", "-base", base, "-level", "3", "-v1", "100", "-v2", "105", "-out", out, "-resolution", "coarse")
	require.NoError(t, err)

	path := filepath.Join(out, "CO2_100-105_VAC.svg")
	require.Contains(t, stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Volume Absorption Coefficient")

	_, _, err = runCLI(t, "plot", "-base", base, "-level", "3", "-v1", "90", "-v2", "105", "-out", out)
	require.ErrorIs(t, err, errs.ErrOutOfTableBounds)
}

func TestPostprocess(t *testing.T) {
	dir := t.TempDir()
	data := testutil.EncodeRecords(format.Default, 11, testutil.Ramp)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3__.CO2"), data, 0o600))
	out := t.TempDir()

	_, _, err := runCLI(t, "postprocess", "-dir", dir, "-level", "3", "-v1", "100", "-v2", "110",
		"-resolution", "medium", "-out", out)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(out, "SPECTR"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	require.Len(t, lines, 2050)
	require.Equal(t, "               1        2049", lines[0])
	require.Equal(t, "      100.00000         4.0000000", lines[1])

	_, _, err = runCLI(t, "postprocess", "-dir", dir, "-level", "3", "-v1", "100", "-v2", "110", "-out", out)
	require.ErrorIs(t, err, errs.ErrInvalidResolution)
}

func TestInspect(t *testing.T) {
	base, data := setupRun(t)

	stdout, _, err := runCLI(t, "inspect", "-base", base, "-level", "3", "-mmap")
	require.NoError(t, err)
	require.Contains(t, stdout, "records:     11")
	require.Contains(t, stdout, "well-formed: true")
	require.Contains(t, stdout, "samples:     first 1000, last 31480")
	require.Contains(t, stdout, "xxh64:       "+hash.Hex(hash.Sum64(data)))
	require.Contains(t, stdout, "molecule:    CO2")
}

func TestErrors(t *testing.T) {
	base, _ := setupRun(t)

	_, _, err := runCLI(t)
	require.ErrorIs(t, err, errUsage)

	_, stderr, err := runCLI(t, "frobnicate")
	require.ErrorIs(t, err, errUsage)
	require.Contains(t, stderr, `unknown command "frobnicate"`)

	_, _, err = runCLI(t, "convert", "-base", base, "-level", "4")
	require.ErrorIs(t, err, errs.ErrTableNotFound)
	require.Contains(t, describe(err).Error(), "invalid number of atmospheric level")

	_, _, err = runCLI(t, "convert", "-base", base)
	require.ErrorIs(t, err, errs.ErrInvalidLevel, "level is required")

	_, _, err = runCLI(t, "convert", "-base", base, "-level", "1000")
	require.ErrorIs(t, err, errs.ErrInvalidLevel)

	// level 0 is a valid name, 0__.ptbin, that this run does not hold
	_, _, err = runCLI(t, "convert", "-base", base, "-level", "0")
	require.ErrorIs(t, err, errs.ErrTableNotFound)

	_, _, err = runCLI(t, "convert", "-base", base, "-level", "3", "stray")
	require.ErrorIs(t, err, errUsage)

	require.NoError(t, os.WriteFile(filepath.Join(base, "latest_run.txt"), nil, 0o600))
	_, _, err = runCLI(t, "inspect", "-base", base, "-level", "3")
	require.ErrorIs(t, err, errs.ErrEmptyLatestRun)
}

func TestBaseDirFromEnv(t *testing.T) {
	base, _ := setupRun(t)
	t.Setenv(baseDirEnv, base)

	stdout, _, err := runCLI(t, "inspect", "-level", "3")
	require.NoError(t, err)
	require.Contains(t, stdout, "records:     11")
}
