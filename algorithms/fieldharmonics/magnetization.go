package fieldharmonics

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/emdesign/algorithms/common"
)

// MagnetizationPattern selects how the surface magnets are magnetized
type MagnetizationPattern string

const (
	MagnetizationRadial   MagnetizationPattern = "radial"
	MagnetizationParallel MagnetizationPattern = "parallel"
)

// ParseMagnetizationPattern maps a configuration string onto a pattern
func ParseMagnetizationPattern(s string) (MagnetizationPattern, error) {
	switch MagnetizationPattern(s) {
	case MagnetizationRadial, MagnetizationParallel:
		return MagnetizationPattern(s), nil
	}
	return "", fmt.Errorf("fieldharmonics: unknown magnetization pattern %q", s)
}

// MagnetizationCoefficients holds the Fourier coefficients of one harmonic of
// M = Mr·cos(kθ)·r̂ + Mθ·sin(kθ)·θ̂ in A/m
type MagnetizationCoefficients struct {
	Radial     float64
	Tangential float64
}

// Divergence returns the coefficient of cos(kθ)/r in ∇·M
func (m MagnetizationCoefficients) Divergence(order int) float64 {
	return m.Radial + float64(order)*m.Tangential
}

// magnetizationHarmonic returns the coefficients of order k = v·p for a magnet
// ring of pole arc fraction alphaP and remanence br.
func magnetizationHarmonic(pattern MagnetizationPattern, order, polePairs int, alphaP, br float64) MagnetizationCoefficients {
	m0 := br / Mu0
	switch pattern {
	case MagnetizationParallel:
		k := float64(order)
		beta := alphaP * math.Pi / (2 * float64(polePairs))
		c1 := common.Sinc((k + 1) * beta)
		c2 := 1.0
		if order != 1 {
			c2 = common.Sinc((k - 1) * beta)
		}
		return MagnetizationCoefficients{
			Radial:     m0 * alphaP * (c1 + c2),
			Tangential: m0 * alphaP * (c1 - c2),
		}
	default:
		v := float64(order / polePairs)
		return MagnetizationCoefficients{
			Radial: 2 * m0 * alphaP * common.Sinc(v*math.Pi*alphaP/2),
		}
	}
}
