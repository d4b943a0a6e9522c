package fitting

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/RyanBlaney/emdesign/algorithms/common"
	"github.com/RyanBlaney/emdesign/algorithms/spectral"
	"github.com/RyanBlaney/emdesign/logging"
)

var (
	// ErrTooFewSamples is returned when a record cannot hold one sinusoid
	ErrTooFewSamples = errors.New("fitting: at least four samples are required")
	// ErrInvalidAxis is returned for a non-increasing abscissa
	ErrInvalidAxis = errors.New("fitting: abscissa must be strictly increasing")
	// ErrLengthMismatch is returned when x and y differ in length
	ErrLengthMismatch = errors.New("fitting: x and y lengths differ")
)

// Relative spacing deviation below which an abscissa counts as uniform
const uniformTolerance = 1e-6

// SinusoidFit is the least-squares fit y ≈ Amplitude·sin(AngularFrequency·x + Phase) + Offset
type SinusoidFit struct {
	Amplitude        float64 `json:"amplitude"` // Always non-negative
	AngularFrequency float64 `json:"angular_frequency"`
	Phase            float64 `json:"phase"` // Wrapped to (-π, π]
	Offset           float64 `json:"offset"`
	Frequency        float64 `json:"frequency"` // Cycles per unit of x
	Period           float64 `json:"period"`

	Residual    float64 `json:"residual"`    // RMS error of the fit in units of y
	Converged   bool    `json:"converged"`   // Optimizer reported success
	Status      string  `json:"status"`      // Optimizer termination status
	Evaluations int     `json:"evaluations"` // Cost function evaluations
}

// Evaluate returns the fitted curve at x
func (f *SinusoidFit) Evaluate(x float64) float64 {
	return f.Amplitude*math.Sin(f.AngularFrequency*x+f.Phase) + f.Offset
}

// SinusoidParams controls the refinement stage
type SinusoidParams struct {
	MaxIterations     int     `json:"max_iterations"`
	FunctionTolerance float64 `json:"function_tolerance"` // Absolute change of the normalized cost
	StallIterations   int     `json:"stall_iterations"`
}

// DefaultSinusoidParams returns the refinement settings used for flux-linkage fits
func DefaultSinusoidParams() SinusoidParams {
	return SinusoidParams{
		MaxIterations:     5000,
		FunctionTolerance: 1e-15,
		StallIterations:   200,
	}
}

// SinusoidFitter fits a single sinusoid plus offset to a uniformly sampled record
type SinusoidFitter struct {
	params SinusoidParams
	fft    *spectral.FFT
	logger logging.Logger
}

// NewSinusoidFitter creates a fitter with default parameters
func NewSinusoidFitter() *SinusoidFitter {
	return NewSinusoidFitterWithParams(DefaultSinusoidParams())
}

// NewSinusoidFitterWithParams creates a fitter with custom parameters
func NewSinusoidFitterWithParams(params SinusoidParams) *SinusoidFitter {
	return &SinusoidFitter{
		params: params,
		fft:    spectral.NewFFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "sinusoid_fitter",
		}),
	}
}

// FitSinusoid fits y(x) with the default fitter
func FitSinusoid(x, y []float64) (*SinusoidFit, error) {
	return NewSinusoidFitter().Fit(x, y)
}

// Fit seeds the model from the FFT of y and refines it with Nelder–Mead on the
// squared error. A non-uniform x is resampled linearly onto an even grid for the
// seed only; the refinement always uses the original samples.
//
// The optimizer works on normalized coordinates (x over the record span, y over
// its standard deviation) so every parameter is of order one. A fit that lands
// far from the seed frequency is usually a local optimum; callers check
// Frequency against the expected excitation.
func (sf *SinusoidFitter) Fit(x, y []float64) (*SinusoidFit, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x=%d y=%d", ErrLengthMismatch, len(x), len(y))
	}
	n := len(x)
	if n < 4 {
		return nil, ErrTooFewSamples
	}
	for i := 1; i < n; i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%v after %v", ErrInvalidAxis, i, x[i], x[i-1])
		}
	}

	x0 := x[0]
	span := x[n-1] - x0
	mean := common.Mean(y)
	scale := common.PopulationStandardDeviation(y)

	if scale <= 1e-12*math.Max(1, math.Abs(mean)) {
		return &SinusoidFit{
			Offset:    mean,
			Converged: true,
			Status:    "ConstantSignal",
		}, nil
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range x {
		xs[i] = (x[i] - x0) / span
		ys[i] = (y[i] - mean) / scale
	}

	var err error
	seedX, seedY := xs, ys
	if !common.IsUniform(xs, uniformTolerance) {
		seedX, seedY, err = common.ResampleUniform(xs, ys, n)
		if err != nil {
			return nil, err
		}
	}
	peak, err := sf.fft.DominantPeak(seedY, seedX[1]-seedX[0])
	if err != nil {
		return nil, err
	}

	// FFT phase is cosine referenced; sin(θ + π/2) = cos(θ)
	initial := []float64{
		math.Sqrt2, // √2·σ is the amplitude of a pure sinusoid with σ = 1
		2 * math.Pi * peak.Frequency,
		peak.Phase + math.Pi/2,
		0,
	}

	cost := func(p []float64) float64 {
		a, w, phi, c := p[0], p[1], p[2], p[3]
		sum := 0.0
		for i, xi := range xs {
			r := a*math.Sin(w*xi+phi) + c - ys[i]
			sum += r * r
		}
		return sum / float64(n)
	}

	settings := &optimize.Settings{
		MajorIterations: sf.params.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   sf.params.FunctionTolerance,
			Iterations: sf.params.StallIterations,
		},
	}

	result, err := optimize.Minimize(optimize.Problem{Func: cost}, initial, settings, &optimize.NelderMead{})
	if result == nil {
		return nil, fmt.Errorf("fitting: optimizer failed: %w", err)
	}

	a, w, phi, c := result.X[0], result.X[1], result.X[2], result.X[3]
	if a < 0 {
		a = -a
		phi += math.Pi
	}

	omega := w / span
	fit := &SinusoidFit{
		Amplitude:        a * scale,
		AngularFrequency: omega,
		Phase:            common.WrapAngle(phi - omega*x0),
		Offset:           c*scale + mean,
		Frequency:        omega / (2 * math.Pi),
		Residual:         math.Sqrt(result.F) * scale,
		Converged:        err == nil && !hitLimit(result.Status),
		Status:           result.Status.String(),
		Evaluations:      result.Stats.FuncEvaluations,
	}
	if fit.Frequency != 0 {
		fit.Period = 1 / fit.Frequency
	}

	if !fit.Converged {
		fields := logging.Fields{"status": fit.Status}
		if err != nil {
			fields["error"] = err.Error()
		}
		sf.logger.Warn("Sinusoid fit did not converge", fields)
	}

	sf.logger.Debug("Sinusoid fit completed", logging.Fields{
		"seed_frequency": peak.Frequency / span,
		"frequency":      fit.Frequency,
		"amplitude":      fit.Amplitude,
		"offset":         fit.Offset,
		"residual":       fit.Residual,
		"status":         fit.Status,
	})

	return fit, nil
}

// hitLimit reports whether the optimizer stopped on a budget rather than convergence
func hitLimit(status optimize.Status) bool {
	switch status {
	case optimize.IterationLimit, optimize.RuntimeLimit, optimize.FunctionEvaluationLimit:
		return true
	}
	return false
}
