package fieldharmonics

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// SPMParams describes an inner surface permanent magnet rotor inside a slotless
// stator bore
type SPMParams struct {
	PoleArc              float64 `json:"pole_arc" yaml:"pole_arc" toml:"pole_arc"` // αp, per unit of pole pitch
	Theta                float64 `json:"theta" yaml:"theta" toml:"theta"`          // Rotor d-axis position, rad
	PolePairs            int     `json:"pole_pairs" yaml:"pole_pairs" toml:"pole_pairs"`
	RelativePermeability float64 `json:"relative_permeability" yaml:"relative_permeability" toml:"relative_permeability"`
	Remanence            float64 `json:"remanence" yaml:"remanence" toml:"remanence"`                      // Br, T
	RotorIronRadius      float64 `json:"rotor_iron_radius" yaml:"rotor_iron_radius" toml:"rotor_iron_radius"` // R_r, m
	MagnetThickness      float64 `json:"magnet_thickness" yaml:"magnet_thickness" toml:"magnet_thickness"`    // m
	Clearance            float64 `json:"clearance" yaml:"clearance" toml:"clearance"`                         // Magnet surface to bore, m

	Magnetization MagnetizationPattern `json:"magnetization" yaml:"magnetization" toml:"magnetization"`

	// Orders defaults to p·[1,3,5,...,13]
	Orders []int `json:"orders" yaml:"orders" toml:"orders"`
}

// DefaultSPMOrders returns the odd multiples of p up to the 13th
func DefaultSPMOrders(polePairs int) []int {
	orders := make([]int, 0, 7)
	for v := 1; v <= 13; v += 2 {
		orders = append(orders, v*polePairs)
	}
	return orders
}

// Validate checks the rotor parameters
func (p SPMParams) Validate() error {
	switch {
	case p.PolePairs <= 0:
		return fmt.Errorf("%w: pole pairs %d", ErrInvalidGeometry, p.PolePairs)
	case !(p.PoleArc > 0 && p.PoleArc <= 1):
		return fmt.Errorf("%w: pole arc %v not in (0, 1]", ErrInvalidGeometry, p.PoleArc)
	case !(p.RelativePermeability > 0):
		return fmt.Errorf("%w: relative permeability %v", ErrInvalidGeometry, p.RelativePermeability)
	case !(p.RotorIronRadius > 0) || !(p.MagnetThickness > 0) || !(p.Clearance > 0):
		return fmt.Errorf("%w: rotor iron radius %v, magnet thickness %v, clearance %v",
			ErrInvalidGeometry, p.RotorIronRadius, p.MagnetThickness, p.Clearance)
	}
	if p.Magnetization != MagnetizationRadial && p.Magnetization != MagnetizationParallel {
		return fmt.Errorf("fieldharmonics: unknown magnetization pattern %q", p.Magnetization)
	}
	return validateOrders(p.Orders)
}

// airgapCoefficients holds the normalized scalar potential of one harmonic in
// the airgap, φ/R_s = a·(ρ/ρ_m)^k + b·(ρ_m/ρ)^k with ρ = r/R_s. Referencing the
// powers to the magnet surface keeps the system well scaled for high orders.
type airgapCoefficients struct {
	a, b float64
}

// SPMRotor computes the airgap field of a surface magnet rotor between
// infinitely permeable rotor iron and stator bore
type SPMRotor struct {
	params SPMParams
	orders []int

	magnetRadius float64 // R_m
	boreRadius   float64 // R_s

	// coefficients is aligned with orders; masked orders hold zeros
	coefficients []airgapCoefficients
}

var _ FieldCalculator = (*SPMRotor)(nil)

// NewSPMRotor solves the boundary-value problem for every harmonic order
func NewSPMRotor(params SPMParams) (*SPMRotor, error) {
	if len(params.Orders) == 0 {
		params.Orders = DefaultSPMOrders(params.PolePairs)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rotor := &SPMRotor{
		params:       params,
		orders:       append([]int(nil), params.Orders...),
		magnetRadius: params.RotorIronRadius + params.MagnetThickness,
	}
	rotor.boreRadius = rotor.magnetRadius + params.Clearance
	rotor.coefficients = make([]airgapCoefficients, len(rotor.orders))

	for i, order := range rotor.orders {
		if !rotor.allowed(order) {
			continue
		}
		coeff, err := rotor.solveHarmonic(order)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", order, err)
		}
		rotor.coefficients[i] = coeff
	}
	return rotor, nil
}

// allowed reports whether the magnet symmetry produces harmonic order
func (s *SPMRotor) allowed(order int) bool {
	p := s.params.PolePairs
	return order%p == 0 && (order/p)%2 == 1
}

// solveHarmonic imposes, for φ = R_s·Σ(…)·cos(kθ):
//
//	H_θ = 0 at the rotor iron and at the bore
//	φ continuous at the magnet surface
//	B_r continuous at the magnet surface
//
// on the magnet region potential c·ρ^k + d·ρ^{−k} + P(ρ), where P is the
// particular solution of ∇²φ = ∇·M/μr.
func (s *SPMRotor) solveHarmonic(order int) (airgapCoefficients, error) {
	k := float64(order)
	mu := s.params.RelativePermeability
	rhoR := s.params.RotorIronRadius / s.boreRadius
	rhoM := s.magnetRadius / s.boreRadius

	m := magnetizationHarmonic(s.params.Magnetization, order, s.params.PolePairs,
		s.params.PoleArc, s.params.Remanence)
	div := m.Divergence(order)

	var particular, slope func(rho float64) float64
	if order == 1 {
		c := div / (2 * mu)
		particular = func(rho float64) float64 { return c * rho * math.Log(rho) }
		slope = func(rho float64) float64 { return c * (math.Log(rho) + 1) }
	} else {
		c := div / (mu * (1 - k*k))
		particular = func(rho float64) float64 { return c * rho }
		slope = func(float64) float64 { return c }
	}

	// Rows are scaled so every entry is bounded by max(1, μr)
	inner := math.Pow(rhoR/rhoM, k)
	bore := math.Pow(rhoM, k)
	a := mat.NewDense(4, 4, []float64{
		1, bore * bore, 0, 0,
		0, 0, inner * inner, 1,
		1, 1, -1, -1,
		-1, 1, mu, -mu,
	})
	b := mat.NewVecDense(4, []float64{
		0,
		-particular(rhoR) * inner,
		particular(rhoM),
		rhoM / k * (-mu*slope(rhoM) + m.Radial),
	})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return airgapCoefficients{}, err
	}
	return airgapCoefficients{a: x.AtVec(0), b: x.AtVec(1)}, nil
}

func (s *SPMRotor) checkRadius(r float64) error {
	if math.IsNaN(r) || r < s.magnetRadius || r > s.boreRadius {
		return fmt.Errorf("%w: r=%v not in [%v, %v]", ErrRadiusOutOfRange, r, s.magnetRadius, s.boreRadius)
	}
	return nil
}

// powers returns (ρ/ρ_m)^k and (ρ_m/ρ)^k
func (s *SPMRotor) powers(rho, k float64) (rise, decay float64) {
	rhoM := s.magnetRadius / s.boreRadius
	return math.Pow(rho/rhoM, k), math.Pow(rhoM/rho, k)
}

func (s *SPMRotor) rotation(order int) complex128 {
	return cmplx.Exp(complex(0, -float64(order)*s.params.Theta))
}

// RadialHarmonics returns B_r,k·e^{−jkθ} in T
func (s *SPMRotor) RadialHarmonics(r float64) (Spectrum, error) {
	if err := s.checkRadius(r); err != nil {
		return Spectrum{}, err
	}
	rho := r / s.boreRadius
	values := make([]complex128, len(s.orders))
	for i, order := range s.orders {
		c := s.coefficients[i]
		k := float64(order)
		rise, decay := s.powers(rho, k)
		br := -Mu0 * k / rho * (c.a*rise - c.b*decay)
		values[i] = complex(br, 0) * s.rotation(order)
	}
	return applyMask(s.orders, values, s.allowed), nil
}

// TangentialHarmonics returns B_θ,k·e^{−jkθ}·e^{−jπ/2} in T
func (s *SPMRotor) TangentialHarmonics(r float64) (Spectrum, error) {
	if err := s.checkRadius(r); err != nil {
		return Spectrum{}, err
	}
	rho := r / s.boreRadius
	quarter := cmplx.Exp(complex(0, -math.Pi/2))
	values := make([]complex128, len(s.orders))
	for i, order := range s.orders {
		c := s.coefficients[i]
		k := float64(order)
		rise, decay := s.powers(rho, k)
		bt := Mu0 * k / rho * (c.a*rise + c.b*decay)
		values[i] = complex(bt, 0) * s.rotation(order) * quarter
	}
	return applyMask(s.orders, values, s.allowed), nil
}

// Radial synthesizes the radial flux density at angles alpha and radius r
func (s *SPMRotor) Radial(alpha []float64, r float64, orders []int) ([]float64, error) {
	return synthesizeRadial(s, alpha, r, orders)
}

// Tangential synthesizes the tangential flux density at angles alpha and radius r
func (s *SPMRotor) Tangential(alpha []float64, r float64, orders []int) ([]float64, error) {
	return synthesizeTangential(s, alpha, r, orders)
}

// MagnetRadius returns R_m, the inner limit of the modeled airgap
func (s *SPMRotor) MagnetRadius() float64 { return s.magnetRadius }

// BoreRadius returns R_s, the outer limit of the modeled airgap
func (s *SPMRotor) BoreRadius() float64 { return s.boreRadius }
