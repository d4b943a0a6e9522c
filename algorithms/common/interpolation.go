package common

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// ErrResample is returned when a curve cannot be resampled
var ErrResample = errors.New("common: cannot resample curve")

// IsUniform reports whether consecutive spacings of x differ from the mean
// spacing by at most tol relative to it
func IsUniform(x []float64, tol float64) bool {
	n := len(x)
	if n < 3 {
		return true
	}
	step := (x[n-1] - x[0]) / float64(n-1)
	for i := 1; i < n; i++ {
		if math.Abs(x[i]-x[i-1]-step) > tol*math.Abs(step) {
			return false
		}
	}
	return true
}

// ResampleUniform interpolates the curve (x, y) linearly onto n evenly spaced
// abscissae spanning [x[0], x[len-1]]. x must be strictly increasing.
func ResampleUniform(x, y []float64, n int) (xu, yu []float64, err error) {
	if len(x) != len(y) || len(x) < 2 || n < 2 {
		return nil, nil, fmt.Errorf("%w: %d abscissae, %d ordinates, %d targets", ErrResample, len(x), len(y), n)
	}

	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, nil, fmt.Errorf("%w: abscissa not increasing at %d", ErrResample, i)
		}
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(x, y); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrResample, err)
	}

	xu = Linspace(x[0], x[len(x)-1], n)
	yu = make([]float64, n)
	for i, xi := range xu {
		yu[i] = pl.Predict(xi)
	}
	return xu, yu, nil
}
