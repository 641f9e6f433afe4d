package melt

import (
	"math"

	"github.com/montanaflynn/stats"
)

// DetectRegions applies the automatic rule for an axis of length n: the
// pre-melt window is the first 10% of points, the post-melt window the last
// 10%. Both bounds floor, so short axes can produce an empty pre window.
func DetectRegions(n int) Regions {
	return Regions{
		PreStart:  0,
		PreEnd:    int(math.Floor(0.1 * float64(n))),
		PostStart: int(math.Floor(0.9 * float64(n))),
		PostEnd:   n,
	}
}

// windowMean averages the half-open slice [start, end). An empty window has
// no mean; that degeneracy surfaces as NaN and flows through the pipeline
// untouched rather than aborting the run.
func windowMean(values []float64, start, end int) float64 {
	m, err := stats.Mean(stats.Float64Data(values[start:end]))
	if err != nil {
		return math.NaN()
	}
	return m
}

// NormalizeSamples rescales every sample against its own baseline windows:
//
//	normalized[i] = (raw[i] - postAvg) / (preAvg - postAvg)
//
// mapping the post-melt baseline toward 0 and the pre-melt baseline toward 1.
// Values outside the windows may leave [0,1]; they are not clamped. When
// preAvg == postAvg the division produces non-finite values, which propagate.
func NormalizeSamples(samples []Sample, regions Regions) {
	for i := range samples {
		s := &samples[i]
		preAvg := windowMean(s.Fluorescence, regions.PreStart, regions.PreEnd)
		postAvg := windowMean(s.Fluorescence, regions.PostStart, regions.PostEnd)

		normalized := make([]float64, len(s.Fluorescence))
		for j, raw := range s.Fluorescence {
			normalized[j] = (raw - postAvg) / (preAvg - postAvg)
		}
		s.Normalized = normalized
	}
}
