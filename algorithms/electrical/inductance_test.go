package electrical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// plantedFlux synthesizes the flux linkages of a salient machine with phase U
// excited by peakCurrent and sampled every degree over one mechanical revolution
// (two electrical cycles of the 2θ variation for cycles=2).
func plantedFlux(l0, lg, lls, peakCurrent float64, cycles int) InductanceInput {
	const n = 360
	self := make([]float64, n)
	mutual := make([]float64, n)
	third := make([]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(cycles) * float64(i) / n
		self[i] = peakCurrent * (lls + l0 + lg*math.Cos(theta))
		mutual[i] = peakCurrent * (-l0/2 + lg*math.Cos(theta-2*math.Pi/3))
		third[i] = peakCurrent * (-l0/2 + lg*math.Cos(theta+2*math.Pi/3))
	}
	return InductanceInput{
		SelfFlux:    self,
		MutualFlux:  mutual,
		ThirdFlux:   third,
		PeakCurrent: peakCurrent,
		AngleStep:   1.0,
		CSVFolder:   "/tmp/run42/",
		StudyName:   "Tran2TSS_ind",
	}
}

func TestExtractInductanceRoundTrip(t *testing.T) {
	const (
		l0          = 2.0e-3
		lg          = 0.4e-3
		lls         = 0.15e-3
		peakCurrent = 12.0
	)
	input := plantedFlux(l0, lg, lls, peakCurrent, 2)
	input.ExpectedFrequency = 2.0 / 360

	res, err := ExtractInductance(input)
	require.NoError(t, err)

	require.InDelta(t, l0, res.L0, 1e-9)
	require.InDelta(t, lg, res.Lg, 1e-9)
	require.InDelta(t, lls, res.Lls, 1e-9)
	require.InDelta(t, lls+1.5*(l0-lg), res.Ld, 1e-9)
	require.InDelta(t, lls+1.5*(l0+lg), res.Lq, 1e-9)
	require.False(t, res.FrequencyMismatch)
	require.NotNil(t, res.ThirdFit)
	require.InDelta(t, peakCurrent*lg, res.ThirdFit.Amplitude, 1e-9)

	require.Equal(t, "/tmp/run42/", res.CSVFolder)
	require.Equal(t, "Tran2TSS_ind", res.StudyName)
}

func TestExtractInductanceFrequencyMismatch(t *testing.T) {
	input := plantedFlux(1e-3, 0.2e-3, 0.1e-3, 5, 4)
	input.ThirdFlux = nil
	input.ExpectedFrequency = 2.0 / 360

	res, err := ExtractInductance(input)
	require.NoError(t, err)
	require.True(t, res.FrequencyMismatch)
	require.Nil(t, res.ThirdFit)
}

func TestExtractInductanceValidation(t *testing.T) {
	input := plantedFlux(1e-3, 0.2e-3, 0.1e-3, 5, 2)

	bad := input
	bad.PeakCurrent = 0
	_, err := ExtractInductance(bad)
	require.ErrorIs(t, err, ErrInvalidCurrent)

	bad = input
	bad.MutualFlux = bad.MutualFlux[:10]
	_, err = ExtractInductance(bad)
	require.ErrorIs(t, err, ErrLengthMismatch)

	bad = input
	bad.AngleStep = 0
	_, err = ExtractInductance(bad)
	require.Error(t, err)
}
