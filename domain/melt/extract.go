package melt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gohrm/domain/core"
)

// coverageThreshold is the exclusive minimum fraction of non-missing cells a
// column needs to be accepted as a sample.
const coverageThreshold = 0.5

// ExtractSamples validates a tabular reading and converts it into the
// temperature axis plus one cleaned fluorescence vector per column.
//
// Rows whose temperature cell does not parse to a finite number are dropped
// before any other column is looked at. Columns keep explicit missing markers
// through the coverage gate and are only collapsed to plain floats by the
// two-pass fill afterwards.
func ExtractSamples(reading TabularReading) ([]float64, []Sample, []SkippedColumn, error) {
	keptRows, temperatures := filterRows(reading)
	if len(temperatures) == 0 {
		return nil, nil, nil, core.ErrNoValidTemperatureData
	}

	var samples []Sample
	var skipped []SkippedColumn
	used := make(map[string]bool)

	for _, field := range reading.FieldNames {
		if field == reading.TemperatureField {
			continue
		}

		cells := extractColumn(reading, keptRows, field)
		coverage := columnCoverage(cells)
		if coverage <= coverageThreshold {
			skipped = append(skipped, SkippedColumn{Name: field, Coverage: coverage})
			continue
		}

		name := disambiguateName(field, len(samples), used)
		used[name] = true
		samples = append(samples, NewSample(name, fillMissing(cells)))
	}

	if len(samples) == 0 {
		return nil, nil, skipped, core.ErrNoValidSamples
	}
	return temperatures, samples, skipped, nil
}

// filterRows returns the indices of rows with a finite temperature value and
// the parsed temperature axis, aligned 1:1.
func filterRows(reading TabularReading) ([]int, []float64) {
	var kept []int
	var temps []float64
	for i, row := range reading.Rows {
		v, ok := parseCell(row[reading.TemperatureField])
		if !ok {
			continue
		}
		kept = append(kept, i)
		temps = append(temps, v)
	}
	return kept, temps
}

// extractColumn builds the optional-valued cell vector for one field over the
// surviving rows. nil marks a missing cell, never zero.
func extractColumn(reading TabularReading, keptRows []int, field string) []*float64 {
	cells := make([]*float64, len(keptRows))
	for i, rowIdx := range keptRows {
		if v, ok := parseCell(reading.Rows[rowIdx][field]); ok {
			val := v
			cells[i] = &val
		}
	}
	return cells
}

// parseCell parses a raw cell into a finite float. Blank, unparseable and
// non-finite cells all count as missing.
func parseCell(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func columnCoverage(cells []*float64) float64 {
	if len(cells) == 0 {
		return 0
	}
	present := 0
	for _, c := range cells {
		if c != nil {
			present++
		}
	}
	return float64(present) / float64(len(cells))
}

// fillMissing repairs an accepted column: forward-fill from the last seen
// value, then backward-fill still-missing leading cells from the first value
// seen scanning from the end. A fully missing column collapses to zeros.
func fillMissing(cells []*float64) []float64 {
	out := make([]float64, len(cells))

	last := 0.0
	seen := false
	for i, c := range cells {
		if c != nil {
			last = *c
			seen = true
		}
		if seen {
			out[i] = last
		} else {
			out[i] = math.NaN() // placeholder until the backward pass
		}
	}

	first := 0.0
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i] != nil {
			first = *cells[i]
		}
		if math.IsNaN(out[i]) {
			out[i] = first
		}
	}
	return out
}

// disambiguateName resolves sample name collisions by suffixing the 1-based
// position among samples. Empty names fall back to an ordinal placeholder.
func disambiguateName(name string, index int, used map[string]bool) string {
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Sample_%d", index+1)
	}
	if used[name] {
		name = fmt.Sprintf("%s_%d", name, index+1)
	}
	return name
}
