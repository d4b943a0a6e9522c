package performance

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/emdesign/algorithms/common"
)

// ForceParams configures force statistics
type ForceParams struct {
	// FrameRotation is applied to every sample as F·e^{j·FrameRotation}. The FEA
	// export reports force in a frame leading the machine frame by 90°.
	FrameRotation float64 `json:"frame_rotation" yaml:"frame_rotation" toml:"frame_rotation"`

	// MinAbsAverage is the smallest mean force magnitude for which Em is defined
	MinAbsAverage float64 `json:"min_abs_average" yaml:"min_abs_average" toml:"min_abs_average"`
}

// DefaultForceParams returns the −90° frame correction
func DefaultForceParams() ForceParams {
	return ForceParams{
		FrameRotation: -math.Pi / 2,
		MinAbsAverage: 1e-9,
	}
}

// ForceResult contains suspension force statistics in the corrected frame
type ForceResult struct {
	AverageX         float64 `json:"average_x"`
	AverageY         float64 `json:"average_y"`
	AverageMagnitude float64 `json:"average_magnitude"` // Mean of |F|
	AverageAngle     float64 `json:"average_angle"`     // Direction of the mean vector, degrees

	// MagnitudeError (Em) is max |(|F| − mean|F|)| / mean|F|
	MagnitudeError float64 `json:"magnitude_error"`

	// AngleError (Ea) is the signed angle error in degrees with the largest
	// magnitude. Positive means the mean direction lags the sample.
	AngleError float64 `json:"angle_error"`

	NumSamples int `json:"num_samples"`
}

// ForceAnalyzer computes force magnitude and direction errors
type ForceAnalyzer struct {
	params ForceParams
}

// NewForceAnalyzer creates a force analyzer
func NewForceAnalyzer(params ForceParams) *ForceAnalyzer {
	return &ForceAnalyzer{params: params}
}

// Compute evaluates the force components fx, fy against their mean vector
func (fa *ForceAnalyzer) Compute(fx, fy []float64) (*ForceResult, error) {
	if len(fx) != len(fy) {
		return nil, fmt.Errorf("%w: x=%d y=%d", ErrLengthMismatch, len(fx), len(fy))
	}
	if len(fx) == 0 {
		return nil, ErrEmptySeries
	}

	rotation := cmplx.Exp(complex(0, fa.params.FrameRotation))
	x := make([]float64, len(fx))
	y := make([]float64, len(fy))
	magnitude := make([]float64, len(fx))
	for i := range fx {
		f := complex(fx[i], fy[i]) * rotation
		x[i] = real(f)
		y[i] = imag(f)
		magnitude[i] = cmplx.Abs(f)
	}

	avgX := common.Mean(x)
	avgY := common.Mean(y)
	avgMag := common.Mean(magnitude)
	if avgMag < fa.params.MinAbsAverage {
		return nil, fmt.Errorf("%w: mean force magnitude %g", ErrNearZeroAverage, avgMag)
	}

	magErr := make([]float64, len(magnitude))
	angleErr := make([]float64, len(magnitude))
	for i := range magnitude {
		magErr[i] = (magnitude[i] - avgMag) / avgMag
		angleErr[i] = SignedAngle(avgX, avgY, x[i], y[i]) * 180 / math.Pi
	}

	return &ForceResult{
		AverageX:         avgX,
		AverageY:         avgY,
		AverageMagnitude: avgMag,
		AverageAngle:     math.Atan2(avgY, avgX) * 180 / math.Pi,
		MagnitudeError:   math.Abs(magErr[common.ArgMaxAbs(magErr)]),
		AngleError:       angleErr[common.ArgMaxAbs(angleErr)],
		NumSamples:       len(fx),
	}, nil
}

// SignedAngle returns the angle in radians from the reference vector (rx, ry) to
// the actual vector (ax, ay), positive when the reference lags, i.e.
// sign(ref × actual)·|∠(ref, actual)|.
func SignedAngle(rx, ry, ax, ay float64) float64 {
	cross := rx*ay - ry*ax
	dot := rx*ax + ry*ay
	return math.Atan2(cross, dot)
}
