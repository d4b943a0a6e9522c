package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared across the analysis packages, using gonum where it
// has an equivalent.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// PopulationStandardDeviation calculates the standard deviation normalized by N
func PopulationStandardDeviation(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	_, variance := stat.PopMeanVariance(data, nil)
	return math.Sqrt(variance)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Norm(data, 2) / math.Sqrt(float64(len(data)))
}

// MinMax returns the smallest and largest element of data
func MinMax(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// ArgMaxAbs returns the index of the element with the largest magnitude
func ArgMaxAbs(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	best := 0
	for i, v := range data {
		if math.Abs(v) > math.Abs(data[best]) {
			best = i
		}
	}
	return best
}

// Sinc returns sin(x)/x with the removable singularity at 0 filled in
func Sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1.0
	}
	return math.Sin(x) / x
}

// WrapAngle maps an angle in radians onto (-π, π]
func WrapAngle(angle float64) float64 {
	wrapped := math.Mod(angle+math.Pi, 2*math.Pi)
	if wrapped <= 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

// Linspace returns n evenly spaced samples over [start, stop]
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	return floats.Span(out, start, stop)
}

// Tile repeats data count times
func Tile(data []float64, count int) []float64 {
	if count <= 0 || len(data) == 0 {
		return []float64{}
	}
	out := make([]float64, 0, len(data)*count)
	for i := 0; i < count; i++ {
		out = append(out, data...)
	}
	return out
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every element of data is finite
func AllFinite(data []float64) bool {
	for _, v := range data {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}
