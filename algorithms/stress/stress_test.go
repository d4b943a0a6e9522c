package stress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func steel(name string, inner, outer float64) Layer {
	return Layer{
		Name:          name,
		InnerRadius:   inner,
		OuterRadius:   outer,
		Density:       7850,
		YoungsModulus: 200e9,
		PoissonRatio:  0.3,
	}
}

func TestPrincipalStresses(t *testing.T) {
	p := PrincipalStresses(-5, 20, 3)
	require.Equal(t, Principal{20, 3, -5}, p)
	require.Equal(t, 25.0, Tresca(p))

	// Uniaxial tension: both criteria equal the applied stress
	u := PrincipalStresses(100, 0, 0)
	require.InDelta(t, 100, VonMises(u), 1e-12)
	require.InDelta(t, 100, Tresca(u), 1e-12)

	// Pure shear ±τ: von Mises √3·τ, Tresca 2τ
	s := PrincipalStresses(10, -10, 0)
	require.InDelta(t, math.Sqrt(3)*10, CriterionVonMises.Equivalent(s), 1e-12)
	require.InDelta(t, 20, CriterionTresca.Equivalent(s), 1e-12)
}

func TestSolidDisk(t *testing.T) {
	const (
		radius = 0.05
		omega  = 3000.0
	)
	rotor, err := NewLayeredRotor([]Layer{steel("shaft", 0, radius)}, nil)
	require.NoError(t, err)

	sol, err := rotor.Solve(omega)
	require.NoError(t, err)

	k := 7850 * omega * omega / 8
	for _, r := range []float64{0, 0.01, 0.03, radius} {
		radial, tangential := sol.At(0, r)
		require.InDelta(t, 3.3*k*(radius*radius-r*r), radial, 1e-3)
		require.InDelta(t, k*(3.3*radius*radius-1.9*r*r), tangential, 1e-3)
	}
}

func TestSplitDiskMatchesSolid(t *testing.T) {
	solid, err := NewLayeredRotor([]Layer{steel("shaft", 0, 0.05)}, nil)
	require.NoError(t, err)
	split, err := NewLayeredRotor([]Layer{
		steel("shaft", 0, 0.02),
		steel("core", 0.02, 0.035),
		steel("ring", 0.035, 0.05),
	}, []float64{0, 0})
	require.NoError(t, err)

	a, err := solid.Solve(2000)
	require.NoError(t, err)
	b, err := split.Solve(2000)
	require.NoError(t, err)

	for _, tc := range []struct {
		layer int
		r     float64
	}{{0, 0.01}, {1, 0.03}, {2, 0.04}, {2, 0.05}} {
		wantR, wantT := a.At(0, tc.r)
		gotR, gotT := b.At(tc.layer, tc.r)
		require.InDelta(t, wantR, gotR, 1e-3*math.Max(1, math.Abs(wantR)))
		require.InDelta(t, wantT, gotT, 1e-3*math.Max(1, math.Abs(wantT)))
	}
}

func TestShrinkFit(t *testing.T) {
	const (
		b     = 0.02
		c     = 0.05
		delta = 10e-6
		e     = 200e9
	)
	rotor, err := NewLayeredRotor([]Layer{steel("shaft", 0, b), steel("hub", b, c)}, []float64{delta})
	require.NoError(t, err)

	sol, err := rotor.Solve(0)
	require.NoError(t, err)

	p := e * delta * (c*c - b*b) / (2 * b * c * c)
	require.InEpsilon(t, -p, sol.InterfaceStress(0), 1e-9)

	// Lamé hub: σθ at the bore = p·(c² + b²)/(c² − b²)
	_, hoop := sol.At(1, b)
	require.InEpsilon(t, p*(c*c+b*b)/(c*c-b*b), hoop, 1e-9)

	// Assembled surfaces meet: u_hub − u_shaft = δ
	require.InDelta(t, delta, sol.Displacement(1, b)-sol.Displacement(0, b), 1e-15)

	radial, _ := sol.At(1, c)
	require.InDelta(t, 0, radial, 1e-3)
}

func TestSampleAndHollowBore(t *testing.T) {
	rotor, err := NewLayeredRotor([]Layer{steel("ring", 0.02, 0.05)}, nil)
	require.NoError(t, err)
	sol, err := rotor.Solve(1000)
	require.NoError(t, err)

	points := sol.Sample(0, 5)
	require.Len(t, points, 5)
	require.InDelta(t, 0.02, points[0].Radius, 1e-15)
	require.InDelta(t, 0.05, points[4].Radius, 1e-15)
	require.InDelta(t, 0, points[0].Radial, 1e-3)
	require.InDelta(t, 0, points[4].Radial, 1e-3)
	require.Greater(t, points[2].Radial, 0.0)
	// The hoop stress of a spinning ring peaks at the bore
	require.Greater(t, points[0].Tangential, points[4].Tangential)
}

func TestLayeredRotorValidation(t *testing.T) {
	_, err := NewLayeredRotor(nil, nil)
	require.ErrorIs(t, err, ErrInvalidLayer)

	_, err = NewLayeredRotor([]Layer{steel("a", 0, 0.01), steel("b", 0.011, 0.02)}, []float64{0})
	require.ErrorIs(t, err, ErrLayerGap)

	_, err = NewLayeredRotor([]Layer{steel("a", 0, 0.01), steel("b", 0.01, 0.02)}, nil)
	require.Error(t, err)

	bad := steel("a", 0, 0.01)
	bad.PoissonRatio = 0.5
	_, err = NewLayeredRotor([]Layer{bad}, nil)
	require.ErrorIs(t, err, ErrInvalidLayer)
}
