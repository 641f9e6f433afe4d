package melt

import (
	"fmt"

	"gohrm/domain/core"
)

// NormalizationMode selects how the pre/post-melt windows are chosen
type NormalizationMode string

const (
	ModeAuto   NormalizationMode = "auto"
	ModeManual NormalizationMode = "manual"
)

// Row represents one row of a tabular reading as raw string cells keyed by
// field name. Blank or unparseable cells are resolved during extraction.
type Row map[string]string

// TabularReading is the generic parsed table handed to the engine by an
// upstream reader (CSV, spreadsheet, or the archive parser).
type TabularReading struct {
	TemperatureField string   `json:"temperature_field"`
	FieldNames       []string `json:"field_names"` // includes the temperature field, first
	Rows             []Row    `json:"rows"`
}

// Sample holds one well's curves through the pipeline stages. Fluorescence is
// always populated; the remaining vectors are filled in stage order.
type Sample struct {
	Name         string    `json:"name"`
	Fluorescence []float64 `json:"fluorescence"`
	Visible      bool      `json:"visible"`
	Normalized   []float64 `json:"normalized,omitempty"`
	Derivative   []float64 `json:"derivative,omitempty"` // negated, -dF/dT
	Tm           *float64  `json:"tm,omitempty"`
	Difference   []float64 `json:"difference,omitempty"`
}

// NewSample creates a sample with default visibility and no derived curves
func NewSample(name string, fluorescence []float64) Sample {
	return Sample{
		Name:         name,
		Fluorescence: fluorescence,
		Visible:      true,
	}
}

// Regions holds the pre/post-melt baseline windows as half-open index ranges
// into the temperature axis.
type Regions struct {
	PreStart  int `json:"pre_start"`
	PreEnd    int `json:"pre_end"`
	PostStart int `json:"post_start"`
	PostEnd   int `json:"post_end"`
}

// Validate checks the ordering invariant
// 0 <= preStart <= preEnd <= postStart <= postEnd <= n.
func (r Regions) Validate(n int) error {
	if r.PreStart < 0 || r.PreStart > r.PreEnd || r.PreEnd > r.PostStart ||
		r.PostStart > r.PostEnd || r.PostEnd > n {
		return core.NewSettingsError("regions",
			fmt.Sprintf("indices [%d,%d)/[%d,%d) violate ordering for axis length %d",
				r.PreStart, r.PreEnd, r.PostStart, r.PostEnd, n))
	}
	return nil
}

// SkippedColumn records a column dropped by the coverage gate. Not an error:
// the run still succeeds as long as one column survives.
type SkippedColumn struct {
	Name     string  `json:"name"`
	Coverage float64 `json:"coverage"` // fraction of non-missing cells
}

// AnalysisResult is the complete per-run output owned by the aggregator.
type AnalysisResult struct {
	RunID        core.RunID      `json:"run_id"`
	Temperatures []float64       `json:"temperatures"`
	Samples      []Sample        `json:"samples"`
	Regions      Regions         `json:"regions"`
	Skipped      []SkippedColumn `json:"skipped_columns,omitempty"`
}

// AnalysisSettings is the engine's only externally supplied configuration.
type AnalysisSettings struct {
	Mode            NormalizationMode `json:"normalization_mode"`
	SmoothingWindow int               `json:"smoothing_window"`
	ReferenceSample *int              `json:"reference_sample,omitempty"`
	ManualRegions   *Regions          `json:"manual_regions,omitempty"`
}

// DefaultSettings returns automatic windows with light smoothing
func DefaultSettings() AnalysisSettings {
	return AnalysisSettings{
		Mode:            ModeAuto,
		SmoothingWindow: 3,
	}
}

// Validate checks settings that must hold before any data is seen. The
// reference index is deliberately not validated here: an out-of-range
// reference means "no reference selected", not a failure.
func (s AnalysisSettings) Validate() error {
	switch s.Mode {
	case ModeAuto, ModeManual:
	default:
		return core.NewSettingsError("normalization_mode", fmt.Sprintf("unknown mode %q", s.Mode))
	}
	if s.SmoothingWindow < 1 {
		return core.NewSettingsError("smoothing_window", "must be >= 1")
	}
	if s.Mode == ModeManual && s.ManualRegions == nil {
		return core.NewSettingsError("manual_regions", "required when normalization_mode is manual")
	}
	return nil
}
