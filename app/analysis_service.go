package app

import (
	"fmt"

	"gohrm/domain/core"
	"gohrm/domain/melt"
	"gohrm/internal"
)

// AnalysisService runs the melt pipeline and owns the current result. Each
// Analyze call replaces the held result wholesale; visibility toggles mutate
// flags only and never recompute. The service is single-writer: callers must
// not run two analyses against the same instance concurrently.
type AnalysisService struct {
	logger *internal.Logger
	result *melt.AnalysisResult
}

// NewAnalysisService creates a service with no result yet
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{
		logger: internal.DefaultLogger.WithPrefix("AnalysisService"),
	}
}

// Analyze runs the full pipeline: extract, detect regions, normalize,
// smooth, differentiate, locate Tm, and difference against the reference if
// one is selected. The stage order is fixed; smoothing always operates on
// the normalized curve.
func (s *AnalysisService) Analyze(reading melt.TabularReading, settings melt.AnalysisSettings) (*melt.AnalysisResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	temperatures, samples, skipped, err := melt.ExtractSamples(reading)
	if err != nil {
		return nil, err
	}
	for _, col := range skipped {
		s.logger.Warn("skipped column %q (coverage %.0f%%)", col.Name, col.Coverage*100)
	}

	regions, err := resolveRegions(settings, len(temperatures))
	if err != nil {
		return nil, err
	}

	melt.NormalizeSamples(samples, regions)

	for i := range samples {
		sm := &samples[i]
		smoothed := melt.MovingAverage(sm.Normalized, settings.SmoothingWindow)
		sm.Derivative = melt.NegDerivative(smoothed, temperatures)
		sm.Tm = melt.DetectTm(sm.Derivative, temperatures)
	}

	melt.ComputeDifference(samples, settings.ReferenceSample)

	result := &melt.AnalysisResult{
		RunID:        core.NewRunID(),
		Temperatures: temperatures,
		Samples:      samples,
		Regions:      regions,
		Skipped:      skipped,
	}
	s.result = result
	s.logger.Info("run %s: %d samples over %d points", result.RunID, len(samples), len(temperatures))
	return result, nil
}

// resolveRegions picks automatic windows or validates manual ones
func resolveRegions(settings melt.AnalysisSettings, n int) (melt.Regions, error) {
	if settings.Mode == melt.ModeManual {
		regions := *settings.ManualRegions
		if err := regions.Validate(n); err != nil {
			return melt.Regions{}, err
		}
		return regions, nil
	}
	return melt.DetectRegions(n), nil
}

// Result returns the current result, or nil before the first run
func (s *AnalysisService) Result() *melt.AnalysisResult {
	return s.result
}

// ToggleVisibility flips one sample's visibility flag without touching any
// curve data.
func (s *AnalysisService) ToggleVisibility(index int) error {
	if s.result == nil {
		return fmt.Errorf("no analysis result held")
	}
	if index < 0 || index >= len(s.result.Samples) {
		return fmt.Errorf("sample index %d out of range [0,%d)", index, len(s.result.Samples))
	}
	s.result.Samples[index].Visible = !s.result.Samples[index].Visible
	return nil
}

// SetAllVisible sets every sample's visibility flag
func (s *AnalysisService) SetAllVisible(visible bool) {
	if s.result == nil {
		return
	}
	for i := range s.result.Samples {
		s.result.Samples[i].Visible = visible
	}
}
