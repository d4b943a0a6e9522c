package fieldharmonics

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/emdesign/algorithms/common"
)

// tangentialRadiusTolerance is the relative distance from the bore still
// accepted as the bore radius
const tangentialRadiusTolerance = 1e-12

// StatorGeometry describes the slotless airgap seen by a stator winding
type StatorGeometry struct {
	Airgap            float64 `json:"airgap" yaml:"airgap" toml:"airgap"`                                     // Effective airgap δ, m
	StatorInnerRadius float64 `json:"stator_inner_radius" yaml:"stator_inner_radius" toml:"stator_inner_radius"` // r_si, m
	RotorIronRadius   float64 `json:"rotor_iron_radius" yaml:"rotor_iron_radius" toml:"rotor_iron_radius"`       // r_ri, m
	SlotOpening       float64 `json:"slot_opening" yaml:"slot_opening" toml:"slot_opening"`                   // α_so, rad
}

// Validate checks that the radii enclose a positive airgap
func (g StatorGeometry) Validate() error {
	switch {
	case !(g.Airgap > 0):
		return fmt.Errorf("%w: airgap %v", ErrInvalidGeometry, g.Airgap)
	case !(g.RotorIronRadius > 0) || !(g.StatorInnerRadius > g.RotorIronRadius):
		return fmt.Errorf("%w: rotor iron radius %v, stator inner radius %v",
			ErrInvalidGeometry, g.RotorIronRadius, g.StatorInnerRadius)
	case g.SlotOpening < 0 || g.SlotOpening >= 2*math.Pi:
		return fmt.Errorf("%w: slot opening %v", ErrInvalidGeometry, g.SlotOpening)
	}
	return nil
}

// WindingParams describes the winding that produces the stator MMF
type WindingParams struct {
	Phases       int     `json:"phases" yaml:"phases" toml:"phases"`                         // m
	TurnsPerCoil float64 `json:"turns_per_coil" yaml:"turns_per_coil" toml:"turns_per_coil"` // zq
	Coils        float64 `json:"coils" yaml:"coils" toml:"coils"`                            // Nc, coils per phase
	PolePairs    int     `json:"pole_pairs" yaml:"pole_pairs" toml:"pole_pairs"`

	// WindingFactors holds one factor for every order, or a single factor
	// applied to all of them
	WindingFactors []float64 `json:"winding_factors" yaml:"winding_factors" toml:"winding_factors"`

	PeakCurrent  float64 `json:"peak_current" yaml:"peak_current" toml:"peak_current"`    // Î, A
	CurrentPhase float64 `json:"current_phase" yaml:"current_phase" toml:"current_phase"` // rad

	// Orders defaults to p·[1,5,7,11,13,17,19] when empty
	Orders []int `json:"orders" yaml:"orders" toml:"orders"`
}

// StatorParams combines the winding and the airgap it drives
type StatorParams struct {
	Winding  WindingParams  `json:"winding" yaml:"winding" toml:"winding"`
	Geometry StatorGeometry `json:"geometry" yaml:"geometry" toml:"geometry"`
}

// DefaultStatorOrders returns the harmonics of a balanced three-phase winding
// with p pole pairs
func DefaultStatorOrders(polePairs int) []int {
	base := []int{1, 5, 7, 11, 13, 17, 19}
	orders := make([]int, len(base))
	for i, v := range base {
		orders[i] = v * polePairs
	}
	return orders
}

// WindingMMF returns the current linkage harmonics
//
//	MMF_n = (m/π)·zq·Nc·kw_n·Î/n · e^{j·CurrentPhase}
func WindingMMF(w WindingParams) (Spectrum, error) {
	if w.Phases <= 0 {
		return Spectrum{}, fmt.Errorf("fieldharmonics: phase count must be positive: %d", w.Phases)
	}
	orders := w.Orders
	if len(orders) == 0 {
		if w.PolePairs <= 0 {
			return Spectrum{}, fmt.Errorf("fieldharmonics: pole pairs must be positive without explicit orders: %d", w.PolePairs)
		}
		orders = DefaultStatorOrders(w.PolePairs)
	}
	if err := validateOrders(orders); err != nil {
		return Spectrum{}, err
	}
	if len(w.WindingFactors) != 1 && len(w.WindingFactors) != len(orders) {
		return Spectrum{}, fmt.Errorf("%w: winding factors=%d orders=%d",
			ErrLengthMismatch, len(w.WindingFactors), len(orders))
	}

	rotation := cmplx.Exp(complex(0, w.CurrentPhase))
	values := make([]complex128, len(orders))
	for i, n := range orders {
		kw := w.WindingFactors[0]
		if len(w.WindingFactors) > 1 {
			kw = w.WindingFactors[i]
		}
		mmf := float64(w.Phases) / math.Pi * w.TurnsPerCoil * w.Coils * kw * w.PeakCurrent / float64(n)
		values[i] = complex(mmf, 0) * rotation
	}
	return Spectrum{Orders: append([]int(nil), orders...), Values: values}, nil
}

// OuterStator computes the airgap field of a current sheet at the bore of an
// outer stator facing infinitely permeable rotor iron
type OuterStator struct {
	mmf      Spectrum
	geometry StatorGeometry
}

var _ FieldCalculator = (*OuterStator)(nil)

// NewOuterStator creates a calculator from winding parameters
func NewOuterStator(params StatorParams) (*OuterStator, error) {
	mmf, err := WindingMMF(params.Winding)
	if err != nil {
		return nil, err
	}
	return NewOuterStatorFromMMF(mmf, params.Geometry)
}

// NewOuterStatorFromMMF creates a calculator from precomputed MMF harmonics
func NewOuterStatorFromMMF(mmf Spectrum, geometry StatorGeometry) (*OuterStator, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	checked, err := NewSpectrum(mmf.Orders, mmf.Values)
	if err != nil {
		return nil, err
	}
	return &OuterStator{mmf: checked, geometry: geometry}, nil
}

// MMF returns the current linkage harmonics
func (st *OuterStator) MMF() Spectrum {
	return Spectrum{
		Orders: append([]int(nil), st.mmf.Orders...),
		Values: append([]complex128(nil), st.mmf.Values...),
	}
}

// SlotOpeningFactor returns sin(n·α_so/2)/(n·α_so/2)
func (st *OuterStator) SlotOpeningFactor(n int) float64 {
	return common.Sinc(float64(n) * st.geometry.SlotOpening / 2)
}

// CurvatureCoefficient returns the correction of the thin-airgap field of order
// n at radius r for the finite radial extent of the airgap:
//
//	k_c = (nδ/r)·[(r/r_si)^n + (r_ri/r_si)^n·(r_ri/r)^n] / (1 − (r_ri/r_si)^{2n})
func (st *OuterStator) CurvatureCoefficient(n int, r float64) float64 {
	g := st.geometry
	fn := float64(n)
	ratio := g.RotorIronRadius / g.StatorInnerRadius
	num := math.Pow(r/g.StatorInnerRadius, fn) + math.Pow(ratio, fn)*math.Pow(g.RotorIronRadius/r, fn)
	return fn * g.Airgap / r * num / (1 - math.Pow(ratio, 2*fn))
}

func (st *OuterStator) checkRadius(r float64) error {
	g := st.geometry
	if math.IsNaN(r) || r < g.RotorIronRadius || r > g.StatorInnerRadius {
		return fmt.Errorf("%w: r=%v not in [%v, %v]", ErrRadiusOutOfRange, r,
			g.RotorIronRadius, g.StatorInnerRadius)
	}
	return nil
}

// RadialHarmonics returns μ0·MMF_n/δ · k_so(n) · k_c(n, r)
func (st *OuterStator) RadialHarmonics(r float64) (Spectrum, error) {
	if err := st.checkRadius(r); err != nil {
		return Spectrum{}, err
	}
	values := make([]complex128, len(st.mmf.Orders))
	for i, n := range st.mmf.Orders {
		scale := Mu0 / st.geometry.Airgap * st.SlotOpeningFactor(n) * st.CurvatureCoefficient(n, r)
		values[i] = st.mmf.Values[i] * complex(scale, 0)
	}
	return Spectrum{Orders: append([]int(nil), st.mmf.Orders...), Values: values}, nil
}

// TangentialHarmonics returns −μ0·(MMF_n·n/r_si)·e^{−jπ/2}. The model only
// defines the tangential field at the bore, so r must equal r_si.
func (st *OuterStator) TangentialHarmonics(r float64) (Spectrum, error) {
	rsi := st.geometry.StatorInnerRadius
	if !(math.Abs(r-rsi) <= tangentialRadiusTolerance*rsi) {
		return Spectrum{}, fmt.Errorf("%w: r=%v, bore=%v", ErrTangentialRadius, r, rsi)
	}
	quarter := cmplx.Exp(complex(0, -math.Pi/2))
	values := make([]complex128, len(st.mmf.Orders))
	for i, n := range st.mmf.Orders {
		values[i] = -complex(Mu0*float64(n)/rsi, 0) * st.mmf.Values[i] * quarter
	}
	return Spectrum{Orders: append([]int(nil), st.mmf.Orders...), Values: values}, nil
}

// Radial synthesizes the radial flux density at angles alpha and radius r
func (st *OuterStator) Radial(alpha []float64, r float64, orders []int) ([]float64, error) {
	return synthesizeRadial(st, alpha, r, orders)
}

// Tangential synthesizes the tangential flux density at the bore
func (st *OuterStator) Tangential(alpha []float64, r float64, orders []int) ([]float64, error) {
	return synthesizeTangential(st, alpha, r, orders)
}

// BoreRadius returns r_si, the only radius accepted by TangentialHarmonics
func (st *OuterStator) BoreRadius() float64 {
	return st.geometry.StatorInnerRadius
}
