package fieldharmonics

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStator(t *testing.T) *OuterStator {
	t.Helper()
	stator, err := NewOuterStator(StatorParams{
		Winding: WindingParams{
			Phases:         3,
			TurnsPerCoil:   10,
			Coils:          4,
			PolePairs:      2,
			WindingFactors: []float64{0.9},
			PeakCurrent:    5,
		},
		Geometry: StatorGeometry{
			Airgap:            1e-3,
			StatorInnerRadius: 0.05,
			RotorIronRadius:   0.049,
			SlotOpening:       math.Pi / 30,
		},
	})
	require.NoError(t, err)
	return stator
}

func TestWindingMMF(t *testing.T) {
	mmf, err := WindingMMF(WindingParams{
		Phases:         3,
		TurnsPerCoil:   10,
		Coils:          4,
		WindingFactors: []float64{0.9, 0.5},
		PeakCurrent:    5,
		CurrentPhase:   math.Pi / 4,
		Orders:         []int{1, 5},
	})
	require.NoError(t, err)

	base := 3 / math.Pi * 10 * 4 * 5
	require.InDelta(t, base*0.9, cmplx.Abs(mmf.Values[0]), 1e-9)
	require.InDelta(t, base*0.5/5, cmplx.Abs(mmf.Values[1]), 1e-9)
	require.InDelta(t, math.Pi/4, cmplx.Phase(mmf.Values[0]), 1e-12)

	_, err = WindingMMF(WindingParams{Phases: 3, WindingFactors: []float64{1, 1}, Orders: []int{1, 5, 7}})
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = WindingMMF(WindingParams{Phases: 3, WindingFactors: []float64{1}, Orders: []int{0}})
	require.ErrorIs(t, err, ErrInvalidOrder)

	mmf, err = WindingMMF(WindingParams{Phases: 3, WindingFactors: []float64{1}, PolePairs: 2})
	require.NoError(t, err)
	require.Equal(t, []int{2, 10, 14, 22, 26, 34, 38}, mmf.Orders)
}

func TestOuterStatorThinGapCurvature(t *testing.T) {
	stator, err := NewOuterStatorFromMMF(Spectrum{Orders: []int{1}, Values: []complex128{100}}, StatorGeometry{
		Airgap:            1e-6,
		StatorInnerRadius: 0.1,
		RotorIronRadius:   0.1 - 1e-6,
	})
	require.NoError(t, err)
	require.InDelta(t, 1.0, stator.CurvatureCoefficient(1, 0.1), 1e-4)
	require.InDelta(t, 1.0, stator.SlotOpeningFactor(1), 1e-12)

	spectrum, err := stator.RadialHarmonics(0.1)
	require.NoError(t, err)
	require.InDelta(t, Mu0*100/1e-6, real(spectrum.Values[0]), 1e-3*Mu0*100/1e-6)
}

func TestOuterStatorRadialHarmonics(t *testing.T) {
	stator := testStator(t)
	mmf := stator.MMF()

	r := 0.0495
	spectrum, err := stator.RadialHarmonics(r)
	require.NoError(t, err)
	require.Equal(t, mmf.Orders, spectrum.Orders)

	for i, n := range spectrum.Orders {
		fn := float64(n)
		x := 0.049 / 0.05
		kc := fn * 1e-3 / r * (math.Pow(r/0.05, fn) + math.Pow(x, fn)*math.Pow(0.049/r, fn)) / (1 - math.Pow(x, 2*fn))
		kso := math.Sin(fn*math.Pi/60) / (fn * math.Pi / 60)
		want := Mu0 * cmplx.Abs(mmf.Values[i]) / 1e-3 * kso * kc
		require.InDelta(t, want, cmplx.Abs(spectrum.Values[i]), 1e-12*math.Max(1, want))
	}

	_, err = stator.RadialHarmonics(0.051)
	require.ErrorIs(t, err, ErrRadiusOutOfRange)
	_, err = stator.RadialHarmonics(0.0489)
	require.ErrorIs(t, err, ErrRadiusOutOfRange)
}

func TestOuterStatorTangentialOnlyAtBore(t *testing.T) {
	stator := testStator(t)

	_, err := stator.TangentialHarmonics(0.0495)
	require.ErrorIs(t, err, ErrTangentialRadius)
	_, err = stator.TangentialHarmonics(math.NaN())
	require.ErrorIs(t, err, ErrTangentialRadius)

	spectrum, err := stator.TangentialHarmonics(stator.BoreRadius())
	require.NoError(t, err)
	mmf := stator.MMF()
	for i, n := range spectrum.Orders {
		// −μ0·MMF·n/r_si·(−j) = j·μ0·MMF·n/r_si for a real MMF
		want := Mu0 * real(mmf.Values[i]) * float64(n) / 0.05
		require.InDelta(t, 0, real(spectrum.Values[i]), 1e-12)
		require.InDelta(t, want, imag(spectrum.Values[i]), 1e-12*want)
	}
}

func TestSynthesisSingleHarmonicAtZero(t *testing.T) {
	stator := testStator(t)

	spectrum, err := stator.RadialHarmonics(0.05)
	require.NoError(t, err)
	b, _ := spectrum.Value(2)

	field, err := stator.Radial([]float64{0}, 0.05, []int{2})
	require.NoError(t, err)
	require.Len(t, field, 1)
	require.Equal(t, cmplx.Abs(b)*math.Cos(cmplx.Phase(b)-math.Pi/2), field[0])

	tangential, err := stator.TangentialHarmonics(0.05)
	require.NoError(t, err)
	bt, _ := tangential.Value(2)
	field, err = stator.Tangential([]float64{0}, 0.05, []int{2})
	require.NoError(t, err)
	require.Equal(t, cmplx.Abs(bt)*math.Cos(cmplx.Phase(bt)), field[0])
}

func TestSpectrumFilterAndSynthesize(t *testing.T) {
	s, err := NewSpectrum([]int{1, 3, 5}, []complex128{1, complex(0, 2), 0})
	require.NoError(t, err)

	f := s.Filter([]int{3})
	require.Equal(t, []int{3}, f.Orders)
	require.Equal(t, s, s.Filter(nil))

	alpha := []float64{0, math.Pi / 6}
	field := s.Synthesize(alpha, 0)
	for i, a := range alpha {
		want := math.Cos(a) + 2*math.Cos(3*a+math.Pi/2)
		require.InDelta(t, want, field[i], 1e-12)
	}

	_, err = NewSpectrum([]int{1}, nil)
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func spmParams() SPMParams {
	return SPMParams{
		PoleArc:              1,
		PolePairs:            1,
		RelativePermeability: 1,
		Remanence:            1.2,
		RotorIronRadius:      0.5,
		MagnetThickness:      0.3,
		Clearance:            0.2,
		Magnetization:        MagnetizationParallel,
	}
}

func TestSPMUniformDiametricMagnet(t *testing.T) {
	// A uniformly magnetized ring between iron surfaces produces a pure
	// fundamental of Br·(R_m² − R_r²)/(R_s² − R_r²) at the bore.
	rotor, err := NewSPMRotor(spmParams())
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 5, 7, 9, 11, 13}, rotor.orders)

	radial, err := rotor.RadialHarmonics(rotor.BoreRadius())
	require.NoError(t, err)
	want := 1.2 * (0.64 - 0.25) / (1 - 0.25)
	require.InDelta(t, want, real(radial.Values[0]), 1e-9)
	for _, v := range radial.Values[1:] {
		require.InDelta(t, 0, cmplx.Abs(v), 1e-9)
	}

	tangential, err := rotor.TangentialHarmonics(rotor.BoreRadius())
	require.NoError(t, err)
	require.InDelta(t, 0, cmplx.Abs(tangential.Values[0]), 1e-9)
}

func TestSPMThinGapLimit(t *testing.T) {
	// Radial magnets with a clearance much smaller than the magnet approach the
	// fundamental of a square wave, 4/π·Br·h/(h + μr·g). Both the logarithmic
	// fundamental (p = 1) and the regular solution (p = 2) must agree.
	for _, tc := range []struct {
		polePairs int
		want      float64
	}{
		{1, 1.5050324278344487},
		{2, 1.505031108119025},
	} {
		params := SPMParams{
			PoleArc:              1,
			PolePairs:            tc.polePairs,
			RelativePermeability: 1,
			Remanence:            1.2,
			RotorIronRadius:      0.99,
			MagnetThickness:      0.0099,
			Clearance:            0.0001,
			Magnetization:        MagnetizationRadial,
		}
		rotor, err := NewSPMRotor(params)
		require.NoError(t, err)

		radial, err := rotor.RadialHarmonics(rotor.BoreRadius())
		require.NoError(t, err)
		b, ok := radial.Value(tc.polePairs)
		require.True(t, ok)
		require.InDelta(t, tc.want, real(b), 1e-9)
		require.InEpsilon(t, 4/math.Pi*1.2*0.99, real(b), 0.01)
	}
}

func TestSPMParallelHighOrder(t *testing.T) {
	rotor, err := NewSPMRotor(SPMParams{
		PoleArc:              0.8,
		PolePairs:            2,
		RelativePermeability: 1.05,
		Remanence:            1.2,
		RotorIronRadius:      0.4,
		MagnetThickness:      0.05,
		Clearance:            0.05,
		Magnetization:        MagnetizationParallel,
	})
	require.NoError(t, err)

	radial, err := rotor.RadialHarmonics(0.48)
	require.NoError(t, err)
	b, _ := radial.Value(6)
	require.InDelta(t, -0.05232852087997832, real(b), 1e-9)

	tangential, err := rotor.TangentialHarmonics(0.48)
	require.NoError(t, err)
	bt, _ := tangential.Value(6)
	require.InDelta(t, 0, real(bt), 1e-12)
	require.InDelta(t, 0.012566629214011183, imag(bt), 1e-9)
}

func TestSPMMask(t *testing.T) {
	params := spmParams()
	params.PolePairs = 2
	params.PoleArc = 0.7
	params.Magnetization = MagnetizationRadial
	params.Orders = []int{2, 3, 4, 6, 8, 10}

	rotor, err := NewSPMRotor(params)
	require.NoError(t, err)

	radial, err := rotor.RadialHarmonics(0.9)
	require.NoError(t, err)
	require.Equal(t, params.Orders, radial.Orders)

	nonzero := map[int]bool{2: true, 6: true, 10: true}
	for i, order := range radial.Orders {
		if nonzero[order] {
			require.NotZero(t, radial.Values[i], "order %d", order)
		} else {
			require.Zero(t, radial.Values[i], "order %d", order)
		}
	}
}

func TestSPMRotation(t *testing.T) {
	params := spmParams()
	still, err := NewSPMRotor(params)
	require.NoError(t, err)

	params.Theta = 0.3
	turned, err := NewSPMRotor(params)
	require.NoError(t, err)

	a, err := still.RadialHarmonics(0.9)
	require.NoError(t, err)
	b, err := turned.RadialHarmonics(0.9)
	require.NoError(t, err)

	want := a.Values[0] * cmplx.Exp(complex(0, -0.3))
	require.InDelta(t, real(want), real(b.Values[0]), 1e-12)
	require.InDelta(t, imag(want), imag(b.Values[0]), 1e-12)

	field, err := turned.Radial([]float64{0}, 0.9, []int{1})
	require.NoError(t, err)
	v := b.Values[0]
	require.Equal(t, cmplx.Abs(v)*math.Cos(cmplx.Phase(v)-math.Pi/2), field[0])
}

func TestSPMValidation(t *testing.T) {
	rotor, err := NewSPMRotor(spmParams())
	require.NoError(t, err)
	_, err = rotor.RadialHarmonics(0.7)
	require.ErrorIs(t, err, ErrRadiusOutOfRange)
	_, err = rotor.TangentialHarmonics(1.01)
	require.ErrorIs(t, err, ErrRadiusOutOfRange)

	params := spmParams()
	params.PoleArc = 1.5
	_, err = NewSPMRotor(params)
	require.ErrorIs(t, err, ErrInvalidGeometry)

	params = spmParams()
	params.Magnetization = "halbach"
	_, err = NewSPMRotor(params)
	require.Error(t, err)

	_, err = ParseMagnetizationPattern("radial")
	require.NoError(t, err)
}
