package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var (
	// ErrInvalidSample is returned for NaN or infinite samples
	ErrInvalidSample = errors.New("goertzel: sample must be a finite scalar")
	// ErrInvalidSampleRate is returned for non-positive sample rates
	ErrInvalidSampleRate = errors.New("goertzel: sample rate must be positive")
	// ErrInvalidFrequency is returned for negative or non-finite target frequencies
	ErrInvalidFrequency = errors.New("goertzel: target frequency must be finite and non-negative")
	// ErrInsufficientSamples is returned when there is nothing to accumulate
	ErrInsufficientSamples = errors.New("goertzel: at least one sample is required")
)

// BinMode selects how the normalized bin index k is derived from the target frequency
type BinMode int

const (
	// BinRounded truncates k = 0.5 + N·f/fs to an integer bin, so the target is
	// snapped to the nearest DFT bin of the record.
	BinRounded BinMode = iota

	// BinFractional keeps k = N·f/fs as is. Any frequency can be estimated; the
	// result is rotated back so its phase refers to the first sample.
	BinFractional
)

// GoertzelState is the accumulation state of a GoertzelStream
type GoertzelState int

const (
	StateIdle GoertzelState = iota
	StateAccumulating
	StateComplete
)

func (s GoertzelState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// GoertzelEstimate is the complex amplitude of one frequency component.
// Phase is cosine referenced: A·cos(ωn+φ) yields Amplitude A and Phase φ.
type GoertzelEstimate struct {
	Real         float64 `json:"real"`
	Imag         float64 `json:"imag"`
	Amplitude    float64 `json:"amplitude"`
	Phase        float64 `json:"phase"`
	BinIndex     float64 `json:"bin_index"`     // Normalized bin k actually used
	NumSamples   int     `json:"num_samples"`   // Samples consumed
	SumOfSquares float64 `json:"sum_of_squares"` // Signal energy over the record
}

// Complex returns the estimate as Real + j·Imag
func (e GoertzelEstimate) Complex() complex128 {
	return complex(e.Real, e.Imag)
}

// GoertzelOption configures an estimation
type GoertzelOption func(*goertzelConfig)

type goertzelConfig struct {
	binMode BinMode
}

// WithFractionalBin estimates at the exact target frequency instead of the
// nearest integer bin.
func WithFractionalBin() GoertzelOption {
	return func(c *goertzelConfig) {
		c.binMode = BinFractional
	}
}

// goertzelCoefficients holds the per-run constants of the recursion
type goertzelCoefficients struct {
	k             float64
	omega         float64
	sine          float64
	cosine        float64
	coeff         float64
	scalingFactor float64
	numSamples    int
	binMode       BinMode
}

func newGoertzelCoefficients(targetFreq, sampleRate float64, numSamples int, cfg goertzelConfig) (goertzelCoefficients, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return goertzelCoefficients{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	if targetFreq < 0 || math.IsNaN(targetFreq) || math.IsInf(targetFreq, 0) {
		return goertzelCoefficients{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, targetFreq)
	}
	if numSamples < 1 {
		return goertzelCoefficients{}, ErrInsufficientSamples
	}

	n := float64(numSamples)
	var k float64
	switch cfg.binMode {
	case BinFractional:
		k = n * targetFreq / sampleRate
	default:
		k = math.Floor(0.5 + n*targetFreq/sampleRate)
	}

	omega := 2 * math.Pi * k / n
	cosine := math.Cos(omega)

	return goertzelCoefficients{
		k:             k,
		omega:         omega,
		sine:          math.Sin(omega),
		cosine:        cosine,
		coeff:         2 * cosine,
		scalingFactor: 0.5 * n,
		numSamples:    numSamples,
		binMode:       cfg.binMode,
	}, nil
}

// finish turns the final recursion state into an estimate
func (c goertzelCoefficients) finish(q1, q2, sumOfSquares float64) GoertzelEstimate {
	value := complex((q1*c.cosine-q2)/c.scalingFactor, (q1*c.sine)/c.scalingFactor)

	// For a non-integer bin the recursion leaves a residual rotation of e^{jωN}
	if c.binMode == BinFractional {
		value *= cmplx.Exp(complex(0, -c.omega*float64(c.numSamples)))
	}

	return GoertzelEstimate{
		Real:         real(value),
		Imag:         imag(value),
		Amplitude:    cmplx.Abs(value),
		Phase:        cmplx.Phase(value),
		BinIndex:     c.k,
		NumSamples:   c.numSamples,
		SumOfSquares: sumOfSquares,
	}
}

// Goertzel estimates the component of samples at targetFreq in one pass over the
// whole record (numSamples = len(samples)).
//
// References:
// - Goertzel, G. (1958). "An Algorithm for the Evaluation of Finite Trigonometric Series"
// - Banks, K. (2002). "The Goertzel Algorithm", Embedded Systems Programming
func Goertzel(samples []float64, targetFreq, sampleRate float64, opts ...GoertzelOption) (GoertzelEstimate, error) {
	cfg := goertzelConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := newGoertzelCoefficients(targetFreq, sampleRate, len(samples), cfg)
	if err != nil {
		return GoertzelEstimate{}, err
	}

	var q1, q2, sumOfSquares float64
	coeff := c.coeff
	for i, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return GoertzelEstimate{}, fmt.Errorf("%w: sample %d is %v", ErrInvalidSample, i, x)
		}
		q0 := coeff*q1 - q2 + x
		q2 = q1
		q1 = q0
		sumOfSquares += x * x
	}

	return c.finish(q1, q2, sumOfSquares), nil
}

// GoertzelStream is the incremental form of Goertzel for samples that arrive one
// at a time. The numSamples-th push returns the estimate and leaves the stream in
// StateComplete; the next push starts a new record, so one stream serves
// consecutive records of equal length.
// A stream must not be shared between goroutines.
type GoertzelStream struct {
	targetFreq float64
	sampleRate float64
	numSamples int
	cfg        goertzelConfig

	state        GoertzelState
	coeffs       goertzelCoefficients
	q1, q2       float64
	sumOfSquares float64
	count        int
}

// NewGoertzelStream validates the configuration and returns an idle stream
func NewGoertzelStream(targetFreq, sampleRate float64, numSamples int, opts ...GoertzelOption) (*GoertzelStream, error) {
	cfg := goertzelConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Validate eagerly; coefficients are rebuilt when accumulation starts.
	if _, err := newGoertzelCoefficients(targetFreq, sampleRate, numSamples, cfg); err != nil {
		return nil, err
	}

	return &GoertzelStream{
		targetFreq: targetFreq,
		sampleRate: sampleRate,
		numSamples: numSamples,
		cfg:        cfg,
		state:      StateIdle,
	}, nil
}

// State returns the current accumulation state
func (s *GoertzelStream) State() GoertzelState {
	return s.state
}

// Count returns how many samples of the current record have been consumed
func (s *GoertzelStream) Count() int {
	return s.count
}

// Reset discards any partial accumulation
func (s *GoertzelStream) Reset() {
	s.state = StateIdle
	s.q1, s.q2, s.sumOfSquares = 0, 0, 0
	s.count = 0
}

// Push consumes one sample. It returns nil while the record is incomplete and the
// estimate once the last sample of the record has been consumed.
func (s *GoertzelStream) Push(sample float64) (*GoertzelEstimate, error) {
	if math.IsNaN(sample) || math.IsInf(sample, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSample, sample)
	}

	if s.state != StateAccumulating {
		coeffs, err := newGoertzelCoefficients(s.targetFreq, s.sampleRate, s.numSamples, s.cfg)
		if err != nil {
			return nil, err
		}
		s.Reset()
		s.coeffs = coeffs
		s.state = StateAccumulating
	}

	q0 := s.coeffs.coeff*s.q1 - s.q2 + sample
	s.q2 = s.q1
	s.q1 = q0
	s.sumOfSquares += sample * sample
	s.count++

	if s.count < s.numSamples {
		return nil, nil
	}

	s.state = StateComplete
	estimate := s.coeffs.finish(s.q1, s.q2, s.sumOfSquares)
	return &estimate, nil
}
