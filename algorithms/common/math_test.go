package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	data := []float64{1, 2, 3, 4}

	require.InDelta(t, 2.5, Mean(data), 1e-12)
	require.InDelta(t, math.Sqrt(1.25), PopulationStandardDeviation(data), 1e-12)
	require.InDelta(t, math.Sqrt(5.0/3.0), StandardDeviation(data), 1e-12)
	require.InDelta(t, math.Sqrt(7.5), RMS(data), 1e-12)

	lo, hi := MinMax(data)
	require.Equal(t, 1.0, lo)
	require.Equal(t, 4.0, hi)
}

func TestArgMaxAbs(t *testing.T) {
	require.Equal(t, 2, ArgMaxAbs([]float64{0.5, -1, -3, 2}))
	require.Equal(t, -1, ArgMaxAbs(nil))
}

func TestSinc(t *testing.T) {
	require.Equal(t, 1.0, Sinc(0))
	require.InDelta(t, 2/math.Pi, Sinc(math.Pi/2), 1e-12)
}

func TestWrapAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, c := range cases {
		require.InDelta(t, c.want, WrapAngle(c.in), 1e-12, "in=%v", c.in)
	}
}

func TestLinspaceAndTile(t *testing.T) {
	require.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	require.Equal(t, []float64{2}, Linspace(2, 5, 1))
	require.Equal(t, []float64{1, -1, 1, -1}, Tile([]float64{1, -1}, 2))
	require.Empty(t, Tile([]float64{1}, 0))
}

func TestAllFinite(t *testing.T) {
	require.True(t, AllFinite([]float64{1, 2}))
	require.False(t, AllFinite([]float64{1, math.NaN()}))
	require.False(t, AllFinite([]float64{math.Inf(-1)}))
}

func TestIsUniform(t *testing.T) {
	require.True(t, IsUniform(Linspace(0, 1, 11), 1e-9))
	require.True(t, IsUniform([]float64{3, 4}, 1e-9))
	require.False(t, IsUniform([]float64{0, 1, 3, 4}, 1e-3))
}

func TestResampleUniform(t *testing.T) {
	x := []float64{0, 1, 3, 4}
	y := []float64{0, 2, 6, 8}

	xu, yu, err := ResampleUniform(x, y, 5)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3, 4}, xu)
	require.InDeltaSlice(t, []float64{0, 2, 4, 6, 8}, yu, 1e-12)

	_, _, err = ResampleUniform(x, y[:3], 5)
	require.ErrorIs(t, err, ErrResample)
	_, _, err = ResampleUniform([]float64{0, 2, 1}, []float64{0, 1, 2}, 5)
	require.ErrorIs(t, err, ErrResample)
}
