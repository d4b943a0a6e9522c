package performance

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/emdesign/algorithms/common"
)

var (
	// ErrEmptySeries is returned for series without samples
	ErrEmptySeries = errors.New("performance: series is empty")
	// ErrNearZeroAverage is returned when a ratio would divide by an average
	// smaller than the configured minimum
	ErrNearZeroAverage = errors.New("performance: average is too close to zero")
	// ErrLengthMismatch is returned when paired component series differ in length
	ErrLengthMismatch = errors.New("performance: component series lengths differ")
)

// TorqueParams configures torque statistics
type TorqueParams struct {
	// MinAbsAverage is the smallest |average torque| for which ripple is defined
	MinAbsAverage float64 `json:"min_abs_average" yaml:"min_abs_average" toml:"min_abs_average"`
}

// DefaultTorqueParams returns the default threshold
func DefaultTorqueParams() TorqueParams {
	return TorqueParams{
		MinAbsAverage: 1e-9,
	}
}

// TorqueResult contains steady-state torque statistics
type TorqueResult struct {
	Average    float64 `json:"average"`
	Ripple     float64 `json:"ripple"` // |max(err) − min(err)| / Average, per unit
	Max        float64 `json:"max"`
	Min        float64 `json:"min"`
	PeakToPeak float64 `json:"peak_to_peak"`
	NumSamples int     `json:"num_samples"`
}

// TorqueAnalyzer computes average torque and ripple of a trimmed torque series
type TorqueAnalyzer struct {
	params TorqueParams
}

// NewTorqueAnalyzer creates a torque analyzer
func NewTorqueAnalyzer(params TorqueParams) *TorqueAnalyzer {
	return &TorqueAnalyzer{params: params}
}

// Compute returns average torque and ripple. The series must already be past the
// start-up transient, see TrimTransient.
func (ta *TorqueAnalyzer) Compute(torque []float64) (*TorqueResult, error) {
	if len(torque) == 0 {
		return nil, ErrEmptySeries
	}

	average := common.Mean(torque)
	if math.Abs(average) < ta.params.MinAbsAverage || math.IsNaN(average) {
		return nil, fmt.Errorf("%w: average torque %g", ErrNearZeroAverage, average)
	}

	minVal, maxVal := common.MinMax(torque)
	// error = torque − average, so max(error) − min(error) = max − min
	peakToPeak := math.Abs((maxVal - average) - (minVal - average))

	return &TorqueResult{
		Average:    average,
		Ripple:     peakToPeak / average,
		Max:        maxVal,
		Min:        minVal,
		PeakToPeak: peakToPeak,
		NumSamples: len(torque),
	}, nil
}

// TrimTransient drops the leading fraction of series (0 ≤ fraction < 1)
func TrimTransient(series []float64, fraction float64) []float64 {
	fraction = common.Clamp(fraction, 0, 1)
	start := int(math.Floor(fraction * float64(len(series))))
	if start >= len(series) {
		return []float64{}
	}
	return series[start:]
}
