package melt

import "gonum.org/v1/gonum/floats"

// ComputeDifference fills each sample's difference curve relative to the
// reference sample's normalized curve. The reference itself gets an all-zero
// curve. A nil or out-of-range reference leaves every sample untouched: that
// means "no reference selected", not an error.
func ComputeDifference(samples []Sample, reference *int) {
	if reference == nil || *reference < 0 || *reference >= len(samples) {
		return
	}
	ref := samples[*reference].Normalized
	if ref == nil {
		return
	}

	for i := range samples {
		s := &samples[i]
		diff := make([]float64, len(ref))
		if i != *reference {
			floats.SubTo(diff, s.Normalized, ref)
		}
		s.Difference = diff
	}
}
