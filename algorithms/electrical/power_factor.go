package electrical

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/emdesign/algorithms/common"
	"github.com/RyanBlaney/emdesign/algorithms/spectral"
	"github.com/RyanBlaney/emdesign/logging"
)

var (
	// ErrTimeAxis is returned when the time axis cannot define a sample spacing
	ErrTimeAxis = errors.New("electrical: time axis needs at least two increasing samples")
	// ErrLengthMismatch is returned when paired series differ in length
	ErrLengthMismatch = errors.New("electrical: series lengths differ")
)

// PowerFactorParams configures the power factor extraction
type PowerFactorParams struct {
	// PeriodicExtensions is how many times the reconstructed full period is
	// repeated before estimation. More periods sharpen the single-bin estimate.
	PeriodicExtensions int `json:"periodic_extensions" yaml:"periodic_extensions" toml:"periodic_extensions"`
}

// DefaultPowerFactorParams returns the extension count used by the design loop
func DefaultPowerFactorParams() PowerFactorParams {
	return PowerFactorParams{
		PeriodicExtensions: 1000,
	}
}

// PowerFactorResult holds the fundamental phasors and the resulting power factor
type PowerFactorResult struct {
	PowerFactor      float64 `json:"power_factor"`
	VoltageAmplitude float64 `json:"voltage_amplitude"`
	VoltagePhase     float64 `json:"voltage_phase"` // rad
	CurrentAmplitude float64 `json:"current_amplitude"`
	CurrentPhase     float64 `json:"current_phase"` // rad
	SampleRate       float64 `json:"sample_rate"`
	NumSamples       int     `json:"num_samples"` // Length of each extended record
}

// PowerFactor computes cos(φi − φv) of the fundamental at targetFreq from
// voltage and current sampled over half an electrical period.
//
// The half period is completed into a full period using half-wave symmetry
// (x(t+T/2) = −x(t)) and the full period is repeated params.PeriodicExtensions
// times. The sample rate is taken from the last two entries of timeAxis.
func PowerFactor(voltage, current, timeAxis []float64, targetFreq float64, params PowerFactorParams) (*PowerFactorResult, error) {
	if len(timeAxis) < 2 {
		return nil, ErrTimeAxis
	}
	if len(voltage) != len(timeAxis) || len(current) != len(timeAxis) {
		return nil, fmt.Errorf("%w: voltage=%d current=%d time=%d", ErrLengthMismatch,
			len(voltage), len(current), len(timeAxis))
	}

	dt := timeAxis[len(timeAxis)-1] - timeAxis[len(timeAxis)-2]
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: last spacing %v", ErrTimeAxis, dt)
	}
	sampleRate := 1.0 / dt

	extensions := params.PeriodicExtensions
	if extensions < 1 {
		extensions = 1
	}

	logger := logging.WithFields(logging.Fields{
		"component":   "power_factor",
		"target_freq": targetFreq,
		"sample_rate": sampleRate,
		"extensions":  extensions,
	})

	extendedVoltage := extendHalfPeriod(voltage, extensions)
	extendedCurrent := extendHalfPeriod(current, extensions)

	v, err := spectral.Goertzel(extendedVoltage, targetFreq, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("voltage estimate: %w", err)
	}
	i, err := spectral.Goertzel(extendedCurrent, targetFreq, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("current estimate: %w", err)
	}

	result := &PowerFactorResult{
		PowerFactor:      math.Cos(i.Phase - v.Phase),
		VoltageAmplitude: v.Amplitude,
		VoltagePhase:     v.Phase,
		CurrentAmplitude: i.Amplitude,
		CurrentPhase:     i.Phase,
		SampleRate:       sampleRate,
		NumSamples:       len(extendedVoltage),
	}

	logger.Debug("Power factor computed", logging.Fields{
		"power_factor": result.PowerFactor,
		"bin_index":    v.BinIndex,
	})

	return result, nil
}

// extendHalfPeriod appends the negated half period and tiles the full period
func extendHalfPeriod(half []float64, extensions int) []float64 {
	period := make([]float64, 2*len(half))
	for i, x := range half {
		period[i] = x
		period[len(half)+i] = -x
	}

	return common.Tile(period, extensions)
}
