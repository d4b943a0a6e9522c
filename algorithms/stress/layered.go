package stress

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidLayer is returned for layers with bad radii or properties
	ErrInvalidLayer = errors.New("stress: invalid layer")
	// ErrLayerGap is returned when consecutive layers do not share a radius
	ErrLayerGap = errors.New("stress: layers are not contiguous")
)

// Layer is one homogeneous ring of a radially layered rotor. An InnerRadius of 0
// marks a solid shaft.
type Layer struct {
	Name          string  `json:"name"`
	InnerRadius   float64 `json:"inner_radius"` // m
	OuterRadius   float64 `json:"outer_radius"` // m
	Density       float64 `json:"density"`      // kg/m³
	YoungsModulus float64 `json:"youngs_modulus"`
	PoissonRatio  float64 `json:"poisson_ratio"`
}

func (l Layer) validate() error {
	switch {
	case l.InnerRadius < 0 || !(l.OuterRadius > l.InnerRadius):
		return fmt.Errorf("%w: %s radii [%v, %v]", ErrInvalidLayer, l.Name, l.InnerRadius, l.OuterRadius)
	case !(l.YoungsModulus > 0):
		return fmt.Errorf("%w: %s Young's modulus %v", ErrInvalidLayer, l.Name, l.YoungsModulus)
	case !(l.PoissonRatio > -1 && l.PoissonRatio < 0.5):
		return fmt.Errorf("%w: %s Poisson ratio %v", ErrInvalidLayer, l.Name, l.PoissonRatio)
	case l.Density < 0:
		return fmt.Errorf("%w: %s density %v", ErrInvalidLayer, l.Name, l.Density)
	}
	return nil
}

// LayeredRotor models concentric rings assembled with radial interference,
// each in plane stress:
//
//	σr = A + B/r² − (3+ν)·ρω²r²/8
//	σθ = A − B/r² − (1+3ν)·ρω²r²/8
//	u  = r/E·[(1−ν)·A − (1+ν)·B/r² − (1−ν²)·ρω²r²/8]
type LayeredRotor struct {
	layers []Layer
	// interference[i] is the radial overlap between layer i and layer i+1
	interference []float64
	scale        float64 // Outer radius, normalizes B
}

// NewLayeredRotor creates a rotor from layers listed inside out
func NewLayeredRotor(layers []Layer, interference []float64) (*LayeredRotor, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidLayer)
	}
	if len(interference) != len(layers)-1 {
		return nil, fmt.Errorf("stress: %d interfaces need %d interference values, got %d",
			len(layers)-1, len(layers)-1, len(interference))
	}
	for i, l := range layers {
		if err := l.validate(); err != nil {
			return nil, err
		}
		if i > 0 && layers[i-1].OuterRadius != l.InnerRadius {
			return nil, fmt.Errorf("%w: %s ends at %v, %s starts at %v", ErrLayerGap,
				layers[i-1].Name, layers[i-1].OuterRadius, l.Name, l.InnerRadius)
		}
		if i > 0 && l.InnerRadius == 0 {
			return nil, fmt.Errorf("%w: only the innermost layer can be solid", ErrInvalidLayer)
		}
	}
	return &LayeredRotor{
		layers:       append([]Layer(nil), layers...),
		interference: append([]float64(nil), interference...),
		scale:        layers[len(layers)-1].OuterRadius,
	}, nil
}

// Layers returns the rotor layers inside out
func (lr *LayeredRotor) Layers() []Layer {
	return append([]Layer(nil), lr.layers...)
}

// Solution holds the integration constants of every layer at one speed
type Solution struct {
	Omega  float64 // rad/s
	layers []Layer
	a, b   []float64 // b is normalized by the outer radius squared
	scale  float64
}

// radialCoefficients returns the coefficients of σr in (A, B̃) at radius r > 0,
// with B = B̃·scale²
func (lr *LayeredRotor) radialCoefficients(r float64) (ca, cb float64) {
	s := lr.scale / r
	return 1, s * s
}

func (lr *LayeredRotor) displacementCoefficients(l Layer, r float64) (ca, cb float64) {
	nu := l.PoissonRatio
	s := lr.scale / r
	return r / l.YoungsModulus * (1 - nu), -r / l.YoungsModulus * (1 + nu) * s * s
}

func bodyRadial(l Layer, omega, r float64) float64 {
	return (3 + l.PoissonRatio) * l.Density * omega * omega * r * r / 8
}

func bodyTangential(l Layer, omega, r float64) float64 {
	return (1 + 3*l.PoissonRatio) * l.Density * omega * omega * r * r / 8
}

func bodyDisplacement(l Layer, omega, r float64) float64 {
	nu := l.PoissonRatio
	return r / l.YoungsModulus * (1 - nu*nu) * l.Density * omega * omega * r * r / 8
}

// Solve computes the integration constants at angular speed omega (rad/s)
func (lr *LayeredRotor) Solve(omega float64) (*Solution, error) {
	n := len(lr.layers)
	size := 2 * n
	a := mat.NewDense(size, size, nil)
	rhs := mat.NewVecDense(size, nil)

	row := 0
	inner := lr.layers[0]
	if inner.InnerRadius == 0 {
		// Finite stress at the axis
		a.Set(row, 1, 1)
	} else {
		ca, cb := lr.radialCoefficients(inner.InnerRadius)
		a.Set(row, 0, ca)
		a.Set(row, 1, cb)
		rhs.SetVec(row, bodyRadial(inner, omega, inner.InnerRadius))
	}
	row++

	for i := 0; i < n-1; i++ {
		in, out := lr.layers[i], lr.layers[i+1]
		r := in.OuterRadius

		// σr continuous
		ca, cb := lr.radialCoefficients(r)
		a.Set(row, 2*i, ca)
		a.Set(row, 2*i+1, cb)
		a.Set(row, 2*i+2, -ca)
		a.Set(row, 2*i+3, -cb)
		rhs.SetVec(row, bodyRadial(in, omega, r)-bodyRadial(out, omega, r))
		row++

		// u_out − u_in = δ, scaled by E_in/r to keep the row O(1)
		k := in.YoungsModulus / r
		ca, cb = lr.displacementCoefficients(out, r)
		a.Set(row, 2*i+2, k*ca)
		a.Set(row, 2*i+3, k*cb)
		ca, cb = lr.displacementCoefficients(in, r)
		a.Set(row, 2*i, -k*ca)
		a.Set(row, 2*i+1, -k*cb)
		du := lr.interference[i] + bodyDisplacement(out, omega, r) - bodyDisplacement(in, omega, r)
		rhs.SetVec(row, k*du)
		row++
	}

	outer := lr.layers[n-1]
	ca, cb := lr.radialCoefficients(outer.OuterRadius)
	a.Set(row, 2*n-2, ca)
	a.Set(row, 2*n-1, cb)
	rhs.SetVec(row, bodyRadial(outer, omega, outer.OuterRadius))

	var x mat.VecDense
	if err := x.SolveVec(a, rhs); err != nil {
		return nil, fmt.Errorf("stress: layered rotor system: %w", err)
	}

	sol := &Solution{
		Omega:  omega,
		layers: lr.layers,
		a:      make([]float64, n),
		b:      make([]float64, n),
		scale:  lr.scale,
	}
	for i := 0; i < n; i++ {
		sol.a[i] = x.AtVec(2 * i)
		sol.b[i] = x.AtVec(2*i + 1)
	}
	return sol, nil
}

// At returns the radial and tangential stress of layer at radius r
func (s *Solution) At(layer int, r float64) (radial, tangential float64) {
	l := s.layers[layer]
	var bTerm float64
	if r > 0 {
		q := s.scale / r
		bTerm = s.b[layer] * q * q
	}
	radial = s.a[layer] + bTerm - bodyRadial(l, s.Omega, r)
	tangential = s.a[layer] - bTerm - bodyTangential(l, s.Omega, r)
	return radial, tangential
}

// InterfaceStress returns the radial stress transmitted between layer i and
// layer i+1. Negative values are contact pressure.
func (s *Solution) InterfaceStress(i int) float64 {
	radial, _ := s.At(i, s.layers[i].OuterRadius)
	return radial
}

// Displacement returns the radial displacement of layer at radius r
func (s *Solution) Displacement(layer int, r float64) float64 {
	l := s.layers[layer]
	if r == 0 {
		return 0
	}
	q := s.scale / r
	nu := l.PoissonRatio
	return r/l.YoungsModulus*((1-nu)*s.a[layer]-(1+nu)*s.b[layer]*q*q) - bodyDisplacement(l, s.Omega, r)
}

// Point is the stress state at one radius
type Point struct {
	Radius     float64 `json:"radius"`
	Radial     float64 `json:"radial"`
	Tangential float64 `json:"tangential"`
}

// Sample evaluates layer at n evenly spaced radii from its inner to outer surface
func (s *Solution) Sample(layer, n int) []Point {
	l := s.layers[layer]
	if n < 2 {
		n = 2
	}
	points := make([]Point, n)
	for i := range points {
		r := l.InnerRadius + (l.OuterRadius-l.InnerRadius)*float64(i)/float64(n-1)
		radial, tangential := s.At(layer, r)
		points[i] = Point{Radius: r, Radial: radial, Tangential: tangential}
	}
	return points
}
