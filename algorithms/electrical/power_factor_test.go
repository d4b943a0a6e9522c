package electrical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// halfPeriod samples v = V·cos(ωt+φv) and i = I·cos(ωt+φi) over half a period
func halfPeriod(freq float64, n int, phaseV, phaseI float64) (v, i, timeAxis []float64) {
	dt := 1.0 / (2 * freq * float64(n))
	v = make([]float64, n)
	i = make([]float64, n)
	timeAxis = make([]float64, n)
	for k := 0; k < n; k++ {
		tk := float64(k) * dt
		timeAxis[k] = tk
		v[k] = 230 * math.Cos(2*math.Pi*freq*tk+phaseV)
		i[k] = 12 * math.Cos(2*math.Pi*freq*tk+phaseI)
	}
	return v, i, timeAxis
}

func TestPowerFactor(t *testing.T) {
	cases := []struct {
		name   string
		phaseV float64
		phaseI float64
		want   float64
	}{
		{"in phase", 0.4, 0.4, 1.0},
		{"quadrature", 0, -math.Pi / 2, 0.0},
		{"lagging 30deg", 0.1, 0.1 - math.Pi/6, math.Cos(math.Pi / 6)},
		{"leading 60deg", -0.2, -0.2 + math.Pi/3, 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, i, timeAxis := halfPeriod(50, 100, c.phaseV, c.phaseI)
			res, err := PowerFactor(v, i, timeAxis, 50, PowerFactorParams{PeriodicExtensions: 20})
			require.NoError(t, err)
			require.InDelta(t, c.want, res.PowerFactor, 1e-9)
			require.InDelta(t, 230, res.VoltageAmplitude, 1e-6)
			require.InDelta(t, 12, res.CurrentAmplitude, 1e-6)
			require.Equal(t, 2*100*20, res.NumSamples)
		})
	}
}

func TestPowerFactorDefaultExtensions(t *testing.T) {
	v, i, timeAxis := halfPeriod(60, 64, 0, -math.Pi/4)
	res, err := PowerFactor(v, i, timeAxis, 60, DefaultPowerFactorParams())
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt2/2, res.PowerFactor, 1e-9)
	require.Equal(t, 2*64*1000, res.NumSamples)
}

func TestPowerFactorValidation(t *testing.T) {
	_, err := PowerFactor([]float64{1}, []float64{1}, []float64{0}, 50, DefaultPowerFactorParams())
	require.ErrorIs(t, err, ErrTimeAxis)

	_, err = PowerFactor([]float64{1, 2}, []float64{1}, []float64{0, 1}, 50, DefaultPowerFactorParams())
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = PowerFactor([]float64{1, 2}, []float64{1, 2}, []float64{1, 1}, 50, DefaultPowerFactorParams())
	require.ErrorIs(t, err, ErrTimeAxis)
}
