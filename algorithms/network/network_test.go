package network

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveSeriesWithSource(t *testing.T) {
	// 10 W injected at node 0 flows through 2 K/W and 3 K/W to node 2 held at 20.
	x, err := Solve(Problem{
		Nodes: 3,
		Edges: []Edge{
			{From: 0, To: 1, Resistance: 2},
			{From: 1, To: 2, Resistance: 3},
		},
		Sources:    []float64{10, 0, 0},
		References: []Reference{{Node: 2, Value: 20}},
	})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{70, 50, 20}, x, 1e-9)
}

func TestSolveDivider(t *testing.T) {
	x, err := Solve(Problem{
		Nodes: 3,
		Edges: []Edge{
			{From: 0, To: 1, Resistance: 1},
			{From: 1, To: 2, Resistance: 3},
		},
		References: []Reference{{Node: 0, Value: 10}, {Node: 2, Value: 0}},
	})
	require.NoError(t, err)
	require.InDelta(t, 7.5, x[1], 1e-12)
}

func TestSolveParallelEdges(t *testing.T) {
	x, err := Solve(Problem{
		Nodes: 2,
		Edges: []Edge{
			{From: 0, To: 1, Resistance: 4},
			{From: 1, To: 0, Resistance: 4},
			{From: 0, To: 1, Resistance: math.Inf(1)},
		},
		Sources:    []float64{1, 0},
		References: []Reference{{Node: 1, Value: 0}},
	})
	require.NoError(t, err)
	require.InDelta(t, 2, x[0], 1e-12)
}

func TestSolveIsolatedNode(t *testing.T) {
	_, err := Solve(Problem{
		Nodes: 4,
		Edges: []Edge{
			{From: 0, To: 1, Resistance: 1},
			{From: 1, To: 2, Resistance: 1},
			{From: 2, To: 3, Resistance: math.Inf(1)},
		},
		Sources:    []float64{1, 0, 0, 0},
		References: []Reference{{Node: 2, Value: 0}},
	})
	require.ErrorIs(t, err, ErrSingularNetwork)

	var cond mat.Condition
	require.True(t, errors.As(err, &cond))
}

func TestSolveValidation(t *testing.T) {
	tests := []struct {
		name    string
		problem Problem
		want    error
	}{
		{
			name:    "edge out of range",
			problem: Problem{Nodes: 2, Edges: []Edge{{From: 0, To: 2, Resistance: 1}}},
			want:    ErrNodeOutOfRange,
		},
		{
			name:    "zero resistance",
			problem: Problem{Nodes: 2, Edges: []Edge{{From: 0, To: 1, Resistance: 0}}},
			want:    ErrInvalidResistance,
		},
		{
			name:    "nan resistance",
			problem: Problem{Nodes: 2, Edges: []Edge{{From: 0, To: 1, Resistance: math.NaN()}}},
			want:    ErrInvalidResistance,
		},
		{
			name:    "reference out of range",
			problem: Problem{Nodes: 2, References: []Reference{{Node: -1}}},
			want:    ErrNodeOutOfRange,
		},
		{
			name:    "source length",
			problem: Problem{Nodes: 2, Sources: []float64{1}},
			want:    ErrSourceLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.problem)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.Fix("ambient", 25)
	b.Series("core", "ambient", KindPlaneWall, 1, 2, 3)
	b.AddSource("core", 2)
	b.AddSource("core", 3)

	require.Equal(t, 0, b.Node("ambient"))
	idx, ok := b.Index("core")
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Len(t, b.Names(), 4)

	temps, err := b.Solve()
	require.NoError(t, err)
	require.InDelta(t, 25+5*6, temps["core"], 1e-9)
	require.InDelta(t, 25+5*3, temps["core->ambient#1"], 1e-9)
}

func TestResistanceFormulas(t *testing.T) {
	require.InDelta(t, 0.01/(200*0.5), PlaneWall(0.01, 200, 0.5), 1e-15)
	require.InDelta(t, math.Log(2)/(2*math.Pi*0.1*40), CylindricalWall(0.01, 0.02, 0.1, 40), 1e-15)
	require.InDelta(t, 0.1, Convection(20, 0.5), 1e-15)
	require.InDelta(t, 1/(0.01*1005), Advection(0.01, 1005), 1e-15)
	require.True(t, math.IsInf(PlaneWall(0.01, 0, 1), 1))
	require.InDelta(t, 2*math.Pi*0.5, CylinderArea(0.5, 1), 1e-15)
	require.InDelta(t, math.Pi*3, AnnulusArea(1, 2), 1e-15)
}

func air() Fluid {
	return Fluid{
		Density:             1.177,
		KinematicViscosity:  1.57e-5,
		ThermalConductivity: 0.0262,
		SpecificHeat:        1005,
	}
}

func TestTaylorRegimes(t *testing.T) {
	pr := 0.71
	require.Equal(t, 2.0, TaylorNusselt(10, pr))
	require.InDelta(t, 0.212*math.Pow(60, 0.63)*math.Pow(pr, 0.27), TaylorNusselt(60, pr), 1e-12)
	require.InDelta(t, 0.386*math.Sqrt(400)*math.Pow(pr, 0.27), TaylorNusselt(400, pr), 1e-12)

	// Both correlations meet the laminar value of 2 close to the lower boundary
	require.InDelta(t, 2.0, TaylorNusselt(41, pr), 0.1)
}

func TestModifiedTaylorNumber(t *testing.T) {
	fluid := air()
	still := ModifiedTaylorNumber(AirgapFlow{RotorRadius: 0.05, Gap: 1e-3}, fluid)
	require.Zero(t, still)

	flow := AirgapFlow{RotorRadius: 0.05, Gap: 1e-3, AngularSpeed: 2000}
	ta := ModifiedTaylorNumber(flow, fluid)
	rm := 0.0505
	raw := 2000 * math.Sqrt(rm*1e-9) / 1.57e-5
	// The geometric factor of a narrow gap is close to one
	require.InEpsilon(t, raw, ta, 0.02)

	flow.AngularSpeed = 4000
	require.InDelta(t, 2*ta, ModifiedTaylorNumber(flow, fluid), 1e-9)
}

func TestAirgapHeatTransfer(t *testing.T) {
	fluid := air()
	flow := AirgapFlow{RotorRadius: 0.05, Gap: 1e-3}

	// Standstill without axial flow: laminar channel and laminar Taylor regime
	h0 := AirgapHeatTransfer(flow, fluid)
	want := math.Cbrt(8+math.Pow(laminarChannelNusselt, 3)) * fluid.ThermalConductivity / 2e-3
	require.InDelta(t, want, h0, 1e-9)

	flow.AngularSpeed = 5000
	h1 := AirgapHeatTransfer(flow, fluid)
	require.Greater(t, h1, h0)

	flow.AxialSpeed = 40
	require.Greater(t, AirgapHeatTransfer(flow, fluid), h1)
}

func TestRotatingSurfaces(t *testing.T) {
	fluid := air()
	require.Equal(t, freeConvectionCoefficient, RotatingDiskHeatTransfer(0.05, 0, fluid))
	require.Equal(t, freeConvectionCoefficient, RotatingShaftHeatTransfer(0.01, 0, fluid))

	re := 1000 * 0.05 * 0.05 / fluid.KinematicViscosity
	require.Less(t, re, diskTransitionReynolds)
	require.InDelta(t, 0.36*math.Sqrt(re)*fluid.ThermalConductivity/0.05,
		RotatingDiskHeatTransfer(0.05, 1000, fluid), 1e-9)

	re = 20000 * 0.1 * 0.1 / fluid.KinematicViscosity
	require.Greater(t, re, diskTransitionReynolds)
	require.InDelta(t, 0.015*math.Pow(re, 0.8)*fluid.ThermalConductivity/0.1,
		RotatingDiskHeatTransfer(0.1, 20000, fluid), 1e-6)

	re = 3000 * 0.02 * 0.02 / fluid.KinematicViscosity
	want := 0.133 * math.Pow(re, 2.0/3) * math.Cbrt(fluid.Prandtl()) * fluid.ThermalConductivity / 0.02
	require.InDelta(t, want, RotatingShaftHeatTransfer(0.01, 3000, fluid), 1e-9)
}
