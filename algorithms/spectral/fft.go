package spectral

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrNoSpectralPeak is returned when a record is too short to hold a non-DC bin
var ErrNoSpectralPeak = errors.New("fft: record too short for a non-DC peak")

// FFT provides Fast Fourier Transform functionality
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes Fast Fourier Transform using mjibson/go-dsp
// Takes []float64 input and returns []complex128 output
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	// mjibson/go-dsp handles all sizes efficiently, including non-power-of-2
	return fft.FFTReal(x)
}

// SpectralPeak is the strongest non-DC bin of a one-sided spectrum
type SpectralPeak struct {
	Bin       int     `json:"bin"`
	Frequency float64 `json:"frequency"` // Cycles per unit of the sample spacing
	Amplitude float64 `json:"amplitude"` // Single-sided amplitude, 2|X|/N
	Phase     float64 `json:"phase"`     // Cosine-referenced phase of the bin
}

// DominantPeak returns the largest-magnitude bin of x excluding DC.
// spacing is the distance between consecutive samples.
func (f *FFT) DominantPeak(x []float64, spacing float64) (SpectralPeak, error) {
	n := len(x)
	if n < 2 {
		return SpectralPeak{}, ErrNoSpectralPeak
	}

	spectrum := f.Compute(x)
	half := n/2 + 1

	best := 1
	bestMag := cmplx.Abs(spectrum[1])
	for i := 2; i < half; i++ {
		if mag := cmplx.Abs(spectrum[i]); mag > bestMag {
			best = i
			bestMag = mag
		}
	}

	amplitude := 2 * bestMag / float64(n)
	// The Nyquist bin of an even-length record has no conjugate partner
	if n%2 == 0 && best == n/2 {
		amplitude = bestMag / float64(n)
	}

	return SpectralPeak{
		Bin:       best,
		Frequency: float64(best) / (float64(n) * spacing),
		Amplitude: amplitude,
		Phase:     cmplx.Phase(spectrum[best]),
	}, nil
}
