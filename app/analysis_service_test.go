package app

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohrm/domain/melt"
)

// syntheticReading builds a plate with nPoints temperatures from 60.0 in
// 0.5 steps and the given named curves.
func syntheticReading(curves map[string][]float64, order []string, nPoints int) melt.TabularReading {
	fields := append([]string{"Temperature"}, order...)
	rows := make([]melt.Row, nPoints)
	for i := 0; i < nPoints; i++ {
		row := melt.Row{"Temperature": formatF(60.0 + 0.5*float64(i))}
		for _, name := range order {
			row[name] = formatF(curves[name][i])
		}
		rows[i] = row
	}
	return melt.TabularReading{TemperatureField: "Temperature", FieldNames: fields, Rows: rows}
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// meltCurve returns a sigmoid-like drop from high to low around midIndex
func meltCurve(n, midIndex int, high, low float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = low + (high-low)/(1+math.Exp(float64(i-midIndex)))
	}
	return out
}

func TestAnalyze_FullPipeline(t *testing.T) {
	n := 40
	curves := map[string][]float64{
		"A1": meltCurve(n, 20, 100, 10),
		"A2": meltCurve(n, 24, 95, 8),
	}
	reading := syntheticReading(curves, []string{"A1", "A2"}, n)

	svc := NewAnalysisService()
	ref := 0
	result, err := svc.Analyze(reading, melt.AnalysisSettings{
		Mode:            melt.ModeAuto,
		SmoothingWindow: 3,
		ReferenceSample: &ref,
	})
	require.NoError(t, err)

	assert.Len(t, result.Temperatures, n)
	require.Len(t, result.Samples, 2)
	for _, s := range result.Samples {
		assert.Len(t, s.Fluorescence, n)
		assert.Len(t, s.Normalized, n)
		assert.Len(t, s.Derivative, n)
		assert.Len(t, s.Difference, n)
		require.NotNil(t, s.Tm)
	}

	// The transitions sit near their configured midpoints
	assert.InDelta(t, 60.0+0.5*20, *result.Samples[0].Tm, 1.0)
	assert.InDelta(t, 60.0+0.5*24, *result.Samples[1].Tm, 1.0)

	// Reference sample differences itself to zero
	for _, v := range result.Samples[0].Difference {
		assert.Zero(t, v)
	}

	r := result.Regions
	assert.True(t, 0 <= r.PreStart && r.PreStart <= r.PreEnd &&
		r.PreEnd <= r.PostStart && r.PostStart <= r.PostEnd && r.PostEnd <= n)
}

func TestAnalyze_DegenerateShortAxis(t *testing.T) {
	// The N=5 edge case: the empty pre-melt window degenerates the
	// normalization into NaN, which must flow through the whole pipeline
	// without a crash or silent coercion to zero.
	reading := syntheticReading(map[string][]float64{
		"A1": {100, 100, 80, 20, 20},
	}, []string{"A1"}, 5)

	svc := NewAnalysisService()
	result, err := svc.Analyze(reading, melt.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, melt.Regions{PreStart: 0, PreEnd: 0, PostStart: 4, PostEnd: 5}, result.Regions)
	for _, v := range result.Samples[0].Normalized {
		assert.True(t, math.IsNaN(v), "degenerate normalization must stay NaN")
	}
	for _, v := range result.Samples[0].Derivative {
		assert.True(t, math.IsNaN(v))
	}
	require.NotNil(t, result.Samples[0].Tm)
}

func TestAnalyze_ReplacesResultWholesale(t *testing.T) {
	n := 20
	reading1 := syntheticReading(map[string][]float64{"A1": meltCurve(n, 10, 100, 10)}, []string{"A1"}, n)
	reading2 := syntheticReading(map[string][]float64{"B7": meltCurve(n, 12, 90, 5)}, []string{"B7"}, n)

	svc := NewAnalysisService()
	first, err := svc.Analyze(reading1, melt.DefaultSettings())
	require.NoError(t, err)
	second, err := svc.Analyze(reading2, melt.DefaultSettings())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Same(t, second, svc.Result())
	assert.Equal(t, "B7", svc.Result().Samples[0].Name)
}

func TestToggleVisibility_NeverRecomputes(t *testing.T) {
	n := 20
	reading := syntheticReading(map[string][]float64{"A1": meltCurve(n, 10, 100, 10)}, []string{"A1"}, n)

	svc := NewAnalysisService()
	result, err := svc.Analyze(reading, melt.DefaultSettings())
	require.NoError(t, err)

	before := append([]float64(nil), result.Samples[0].Normalized...)
	runID := result.RunID

	require.NoError(t, svc.ToggleVisibility(0))
	assert.False(t, svc.Result().Samples[0].Visible)
	require.NoError(t, svc.ToggleVisibility(0))
	assert.True(t, svc.Result().Samples[0].Visible)

	svc.SetAllVisible(false)
	assert.False(t, svc.Result().Samples[0].Visible)

	assert.Equal(t, runID, svc.Result().RunID, "toggles must not re-run the pipeline")
	assert.Equal(t, before, svc.Result().Samples[0].Normalized)

	assert.Error(t, svc.ToggleVisibility(5), "out-of-range toggle is an error")
}

func TestAnalyze_InvalidSettings(t *testing.T) {
	n := 20
	reading := syntheticReading(map[string][]float64{"A1": meltCurve(n, 10, 100, 10)}, []string{"A1"}, n)
	svc := NewAnalysisService()

	_, err := svc.Analyze(reading, melt.AnalysisSettings{Mode: melt.ModeAuto, SmoothingWindow: 0})
	assert.Error(t, err)

	_, err = svc.Analyze(reading, melt.AnalysisSettings{Mode: "bogus", SmoothingWindow: 1})
	assert.Error(t, err)

	_, err = svc.Analyze(reading, melt.AnalysisSettings{Mode: melt.ModeManual, SmoothingWindow: 1})
	assert.Error(t, err, "manual mode requires regions")

	_, err = svc.Analyze(reading, melt.AnalysisSettings{
		Mode:            melt.ModeManual,
		SmoothingWindow: 1,
		ManualRegions:   &melt.Regions{PreStart: 5, PreEnd: 2, PostStart: 18, PostEnd: 20},
	})
	assert.Error(t, err, "manual regions must satisfy the ordering invariant")
}

func TestAnalyze_OutOfRangeReferenceIsPassThrough(t *testing.T) {
	n := 20
	reading := syntheticReading(map[string][]float64{"A1": meltCurve(n, 10, 100, 10)}, []string{"A1"}, n)

	svc := NewAnalysisService()
	ref := 7
	result, err := svc.Analyze(reading, melt.AnalysisSettings{
		Mode:            melt.ModeAuto,
		SmoothingWindow: 1,
		ReferenceSample: &ref,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Samples[0].Difference)
}

func TestExportTable_FixedColumnOrder(t *testing.T) {
	n := 20
	reading := syntheticReading(map[string][]float64{"A1": meltCurve(n, 10, 100, 10)}, []string{"A1"}, n)

	svc := NewAnalysisService()
	ref := 0
	_, err := svc.Analyze(reading, melt.AnalysisSettings{
		Mode:            melt.ModeAuto,
		SmoothingWindow: 3,
		ReferenceSample: &ref,
	})
	require.NoError(t, err)

	table := svc.ExportTable()
	require.Len(t, table, n+1)
	assert.Equal(t, []string{
		"Temperature",
		"A1",
		"A1 (normalized)",
		"A1 (-dF/dT)",
		"A1 (difference)",
	}, table[0])
	assert.Equal(t, "60", table[1][0])
}

func TestExportTable_NoResult(t *testing.T) {
	assert.Nil(t, NewAnalysisService().ExportTable())
}
