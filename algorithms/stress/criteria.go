// Package stress provides closed-form stresses of rotating press-fit cylinders
// and the failure criteria used to rate them.
package stress

import (
	"math"
	"sort"
)

// Principal holds principal stresses sorted σ1 ≥ σ2 ≥ σ3, in Pa
type Principal [3]float64

// PrincipalStresses sorts the normal stresses of an axisymmetric state. Radial,
// tangential and axial directions are principal since the shear terms vanish.
func PrincipalStresses(radial, tangential, axial float64) Principal {
	p := []float64{radial, tangential, axial}
	sort.Sort(sort.Reverse(sort.Float64Slice(p)))
	return Principal{p[0], p[1], p[2]}
}

// VonMises returns the distortion energy equivalent stress, used for ductile
// materials
func VonMises(p Principal) float64 {
	d12 := p[0] - p[1]
	d23 := p[1] - p[2]
	d31 := p[2] - p[0]
	return math.Sqrt((d12*d12 + d23*d23 + d31*d31) / 2)
}

// Tresca returns the maximum shear stress theory equivalent σ1 − σ3, used for
// brittle materials
func Tresca(p Principal) float64 {
	return p[0] - p[2]
}

// Criterion selects a failure theory
type Criterion string

const (
	CriterionVonMises Criterion = "von_mises"
	CriterionTresca   Criterion = "tresca"
)

// Equivalent returns the equivalent stress of p under c
func (c Criterion) Equivalent(p Principal) float64 {
	if c == CriterionTresca {
		return Tresca(p)
	}
	return VonMises(p)
}
