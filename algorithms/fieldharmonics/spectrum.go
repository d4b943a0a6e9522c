// Package fieldharmonics computes analytic airgap flux density harmonics of
// slotless machine parts and synthesizes the field they produce.
package fieldharmonics

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// Mu0 is the vacuum permeability in H/m
const Mu0 = 4 * math.Pi * 1e-7

// radialSynthesisOffset rotates radial harmonics onto the sine reference
// shared with the tangential component
const radialSynthesisOffset = -math.Pi / 2

var (
	// ErrRadiusOutOfRange is returned for radii outside the region a calculator models
	ErrRadiusOutOfRange = errors.New("fieldharmonics: radius is outside the modeled airgap")
	// ErrTangentialRadius is returned when the tangential field is requested away
	// from the radius where it is defined
	ErrTangentialRadius = errors.New("fieldharmonics: tangential field is only defined at the stator bore")
	// ErrInvalidOrder is returned for non-positive harmonic orders
	ErrInvalidOrder = errors.New("fieldharmonics: harmonic orders must be positive")
	// ErrInvalidGeometry is returned for inconsistent radii, gaps or angles
	ErrInvalidGeometry = errors.New("fieldharmonics: invalid geometry")
	// ErrLengthMismatch is returned when orders and values differ in length
	ErrLengthMismatch = errors.New("fieldharmonics: orders and values differ in length")
)

// Spectrum holds complex harmonic values indexed by spatial order. Orders a
// calculator cannot produce are kept with a zero value so indices stay aligned.
type Spectrum struct {
	Orders []int        `json:"orders"`
	Values []complex128 `json:"values"`
}

// NewSpectrum checks and copies orders and values into a spectrum
func NewSpectrum(orders []int, values []complex128) (Spectrum, error) {
	if len(orders) != len(values) {
		return Spectrum{}, fmt.Errorf("%w: orders=%d values=%d", ErrLengthMismatch, len(orders), len(values))
	}
	if err := validateOrders(orders); err != nil {
		return Spectrum{}, err
	}
	return Spectrum{
		Orders: append([]int(nil), orders...),
		Values: append([]complex128(nil), values...),
	}, nil
}

// Len returns the number of harmonics
func (s Spectrum) Len() int {
	return len(s.Orders)
}

// Value returns the value stored for order
func (s Spectrum) Value(order int) (complex128, bool) {
	for i, o := range s.Orders {
		if o == order {
			return s.Values[i], true
		}
	}
	return 0, false
}

// Magnitudes returns |B_n| for every order
func (s Spectrum) Magnitudes() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// Filter returns the harmonics whose order is listed in orders, in spectrum
// order. A nil filter keeps everything.
func (s Spectrum) Filter(orders []int) Spectrum {
	if orders == nil {
		return s
	}
	wanted := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		wanted[o] = struct{}{}
	}
	out := Spectrum{}
	for i, o := range s.Orders {
		if _, ok := wanted[o]; ok {
			out.Orders = append(out.Orders, o)
			out.Values = append(out.Values, s.Values[i])
		}
	}
	return out
}

// Synthesize evaluates Σ|B_n|·cos(n·α + arg(B_n) + offset) at every angle
func (s Spectrum) Synthesize(alpha []float64, offset float64) []float64 {
	field := make([]float64, len(alpha))
	for i, a := range alpha {
		var sum float64
		for j, order := range s.Orders {
			v := s.Values[j]
			if v == 0 {
				continue
			}
			sum += cmplx.Abs(v) * math.Cos(float64(order)*a+cmplx.Phase(v)+offset)
		}
		field[i] = sum
	}
	return field
}

// applyMask zeroes every value whose order fails keep and returns a new spectrum
func applyMask(orders []int, values []complex128, keep func(order int) bool) Spectrum {
	out := Spectrum{
		Orders: append([]int(nil), orders...),
		Values: make([]complex128, len(values)),
	}
	for i, order := range orders {
		if keep(order) {
			out.Values[i] = values[i]
		}
	}
	return out
}

func validateOrders(orders []int) error {
	for _, o := range orders {
		if o <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidOrder, o)
		}
	}
	return nil
}

// FieldCalculator is implemented by analytic airgap field models
type FieldCalculator interface {
	// RadialHarmonics returns the radial flux density harmonics at radius r
	RadialHarmonics(r float64) (Spectrum, error)
	// TangentialHarmonics returns the tangential flux density harmonics at radius r
	TangentialHarmonics(r float64) (Spectrum, error)
	// Radial synthesizes the radial flux density at angles alpha, keeping only
	// the listed orders (nil keeps all)
	Radial(alpha []float64, r float64, orders []int) ([]float64, error)
	// Tangential synthesizes the tangential flux density at angles alpha
	Tangential(alpha []float64, r float64, orders []int) ([]float64, error)
}

type harmonicSource interface {
	RadialHarmonics(r float64) (Spectrum, error)
	TangentialHarmonics(r float64) (Spectrum, error)
}

func synthesizeRadial(src harmonicSource, alpha []float64, r float64, orders []int) ([]float64, error) {
	spectrum, err := src.RadialHarmonics(r)
	if err != nil {
		return nil, err
	}
	return spectrum.Filter(orders).Synthesize(alpha, radialSynthesisOffset), nil
}

func synthesizeTangential(src harmonicSource, alpha []float64, r float64, orders []int) ([]float64, error) {
	spectrum, err := src.TangentialHarmonics(r)
	if err != nil {
		return nil, err
	}
	return spectrum.Filter(orders).Synthesize(alpha, 0), nil
}
