package spectrum

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecimate(t *testing.T) {
	samples := rampSamples(20481)

	medium := Decimate(samples, 10)
	require.Len(t, medium, 2049)
	for i, v := range medium {
		require.Equal(t, samples[i*10], v)
	}

	coarse := Decimate(samples, 100)
	require.Len(t, coarse, 205)
	require.Equal(t, float32(20400), coarse[len(coarse)-1])

	full := Decimate(samples, 1)
	require.Equal(t, samples, full)
	full[0] = -1
	require.Equal(t, float32(0), samples[0], "decimate must not alias its input")

	require.Nil(t, Decimate(samples, 0))
	require.Empty(t, Decimate(nil, 10))
}

func TestLog10(t *testing.T) {
	require.Equal(t, 0.0, Log10(1))
	require.InDelta(t, -20.0, Log10(1e-20), 1e-12)
	require.InDelta(t, 2.0, Log10(100), 1e-12)

	require.True(t, math.IsInf(Log10(0), -1))
	require.True(t, math.IsInf(Log10(-3.5), -1))
	require.True(t, math.IsInf(Log10(math.NaN()), -1))
}

func TestLogTransform(t *testing.T) {
	in := []Point{
		{Wavenumber: 100, Value: 10},
		{Wavenumber: 100.5, Value: 0},
		{Wavenumber: 101, Value: 1000},
	}

	out := slices.Collect(LogTransform(slices.Values(in)))
	require.Len(t, out, 3)
	require.Equal(t, 100.0, out[0].Wavenumber)
	require.InDelta(t, 1.0, out[0].Value, 1e-12)
	require.True(t, math.IsInf(out[1].Value, -1))
	require.Equal(t, 100.5, out[1].Wavenumber)
	require.InDelta(t, 3.0, out[2].Value, 1e-12)

	require.Equal(t, 10.0, in[0].Value, "input points are not modified")
}
