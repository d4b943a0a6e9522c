package electrical

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/emdesign/algorithms/fitting"
	"github.com/RyanBlaney/emdesign/logging"
)

// ErrInvalidCurrent is returned for a zero or non-finite peak current
var ErrInvalidCurrent = errors.New("electrical: peak current must be finite and non-zero")

// frequencyMismatchTolerance is the relative deviation of the fitted frequency
// from the expected one above which the fit is flagged.
const frequencyMismatchTolerance = 0.05

// InductanceInput holds the flux linkages of one reference phase sampled against
// rotor angle while only that phase carries current.
type InductanceInput struct {
	SelfFlux   []float64 `json:"self_flux"`   // Flux of the excited phase (Uu)
	MutualFlux []float64 `json:"mutual_flux"` // Flux of a second phase (Uv)
	ThirdFlux  []float64 `json:"third_flux"`  // Flux of the remaining phase (Uw); optional

	PeakCurrent float64 `json:"peak_current"` // A
	AngleStep   float64 `json:"angle_step"`   // Rotor angle between samples

	// ExpectedFrequency is the variation frequency of the mutual flux in cycles
	// per unit of rotor angle (2·p per mechanical revolution). Zero disables the check.
	ExpectedFrequency float64 `json:"expected_frequency"`

	CSVFolder string `json:"csv_folder"`
	StudyName string `json:"study_name"`
}

// InductanceResult holds the dq inductances and the intermediate quantities
type InductanceResult struct {
	Ld float64 `json:"ld"`
	Lq float64 `json:"lq"`

	L0  float64 `json:"l0"`  // Average of the angle dependent self inductance
	Lg  float64 `json:"lg"`  // Amplitude of the angle dependent part
	Lls float64 `json:"lls"` // Leakage inductance

	SelfFit   *fitting.SinusoidFit `json:"self_fit"`
	MutualFit *fitting.SinusoidFit `json:"mutual_fit"`
	ThirdFit  *fitting.SinusoidFit `json:"third_fit,omitempty"`

	FrequencyMismatch bool `json:"frequency_mismatch"`

	CSVFolder string `json:"csv_folder"`
	StudyName string `json:"study_name"`
}

// InductanceExtractor derives Ld/Lq from sinusoid fits of flux linkage curves
type InductanceExtractor struct {
	fitter *fitting.SinusoidFitter
	logger logging.Logger
}

// NewInductanceExtractor creates an extractor with the default fitter
func NewInductanceExtractor() *InductanceExtractor {
	return NewInductanceExtractorWithFitter(fitting.NewSinusoidFitter())
}

// NewInductanceExtractorWithFitter creates an extractor using fitter
func NewInductanceExtractorWithFitter(fitter *fitting.SinusoidFitter) *InductanceExtractor {
	return &InductanceExtractor{
		fitter: fitter,
		logger: logging.WithFields(logging.Fields{
			"component": "inductance_extractor",
		}),
	}
}

// ExtractInductance runs the default extractor
func ExtractInductance(input InductanceInput) (*InductanceResult, error) {
	return NewInductanceExtractor().Extract(input)
}

// Extract fits offset and amplitude of the self and mutual flux linkages and maps
// them through the symmetric-component transform:
//
//	L0  = −2·c(Uv)/Î
//	Lg  = A(Uv)/Î
//	Lls = (c(Uu) + 2·c(Uv))/Î
//	Ld  = Lls + 1.5·(L0 − Lg)
//	Lq  = Lls + 1.5·(L0 + Lg)
func (ie *InductanceExtractor) Extract(input InductanceInput) (*InductanceResult, error) {
	if input.PeakCurrent == 0 || math.IsNaN(input.PeakCurrent) || math.IsInf(input.PeakCurrent, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurrent, input.PeakCurrent)
	}
	if !(input.AngleStep > 0) {
		return nil, fmt.Errorf("electrical: angle step must be positive: %v", input.AngleStep)
	}
	if len(input.SelfFlux) != len(input.MutualFlux) {
		return nil, fmt.Errorf("%w: self=%d mutual=%d", ErrLengthMismatch,
			len(input.SelfFlux), len(input.MutualFlux))
	}

	logger := ie.logger.WithFields(logging.Fields{
		"study_name": input.StudyName,
		"samples":    len(input.SelfFlux),
	})

	angles := make([]float64, len(input.SelfFlux))
	for i := range angles {
		angles[i] = float64(i) * input.AngleStep
	}

	selfFit, err := ie.fitter.Fit(angles, input.SelfFlux)
	if err != nil {
		return nil, fmt.Errorf("self flux fit: %w", err)
	}
	mutualFit, err := ie.fitter.Fit(angles, input.MutualFlux)
	if err != nil {
		return nil, fmt.Errorf("mutual flux fit: %w", err)
	}

	var thirdFit *fitting.SinusoidFit
	if len(input.ThirdFlux) > 0 {
		if len(input.ThirdFlux) != len(angles) {
			return nil, fmt.Errorf("%w: third=%d", ErrLengthMismatch, len(input.ThirdFlux))
		}
		thirdFit, err = ie.fitter.Fit(angles, input.ThirdFlux)
		if err != nil {
			return nil, fmt.Errorf("third flux fit: %w", err)
		}
	}

	peak := input.PeakCurrent
	l0 := -2 * mutualFit.Offset / peak
	lg := mutualFit.Amplitude / peak
	lls := (selfFit.Offset + 2*mutualFit.Offset) / peak

	result := &InductanceResult{
		Ld:        lls + 1.5*(l0-lg),
		Lq:        lls + 1.5*(l0+lg),
		L0:        l0,
		Lg:        lg,
		Lls:       lls,
		SelfFit:   selfFit,
		MutualFit: mutualFit,
		ThirdFit:  thirdFit,
		CSVFolder: input.CSVFolder,
		StudyName: input.StudyName,
	}

	if input.ExpectedFrequency > 0 {
		deviation := math.Abs(mutualFit.Frequency-input.ExpectedFrequency) / input.ExpectedFrequency
		if deviation > frequencyMismatchTolerance {
			result.FrequencyMismatch = true
			logger.Warn("Fitted flux frequency deviates from the expected excitation", logging.Fields{
				"fitted_frequency":   mutualFit.Frequency,
				"expected_frequency": input.ExpectedFrequency,
				"deviation":          deviation,
			})
		}
	}

	logger.Debug("Inductances extracted", logging.Fields{
		"ld":  result.Ld,
		"lq":  result.Lq,
		"l0":  l0,
		"lg":  lg,
		"lls": lls,
	})

	return result, nil
}
