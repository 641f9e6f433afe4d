package melt

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MovingAverage smooths values with a centered window of the given size.
// Half-window h = floor(window/2); index i averages the half-open slice
// [max(0, i-h), min(n, i+h+1)), so edge points use a shrunken window instead
// of padding. A window of 1 is the identity.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}

	h := window / 2
	for i := range values {
		lo := i - h
		if lo < 0 {
			lo = 0
		}
		hi := i + h + 1
		if hi > len(values) {
			hi = len(values)
		}
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// Derivative computes dy/dx numerically: central differences for interior
// points, a forward difference at the first point and a backward difference
// at the last.
func Derivative(y, x []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	out[0] = (y[1] - y[0]) / (x[1] - x[0])
	out[n-1] = (y[n-1] - y[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / (x[i+1] - x[i-1])
	}
	return out
}

// NegDerivative returns -dy/dx, the conventional melt-curve orientation where
// a fluorescence drop shows as a positive peak.
func NegDerivative(y, x []float64) []float64 {
	d := Derivative(y, x)
	floats.Scale(-1, d)
	return d
}

// PeakIndex returns the index of the maximum absolute value, first occurrence
// winning ties: the scan only moves when an absolute value strictly exceeds
// the current maximum. Returns -1 for an empty vector.
func PeakIndex(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	bestAbs := math.Abs(values[0])
	for i := 1; i < len(values); i++ {
		if a := math.Abs(values[i]); a > bestAbs {
			best = i
			bestAbs = a
		}
	}
	return best
}

// DetectTm locates the melting temperature as the temperature under the peak
// of the negated-derivative curve. Exactly one Tm is reported per curve; no
// multi-peak handling is attempted.
func DetectTm(negDerivative, temperatures []float64) *float64 {
	idx := PeakIndex(negDerivative)
	if idx < 0 || idx >= len(temperatures) {
		return nil
	}
	tm := temperatures[idx]
	return &tm
}
