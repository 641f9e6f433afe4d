package app

import (
	"strconv"

	"gohrm/domain/melt"
)

// ExportTable flattens the current result into rows of columns: the
// temperature column first, then per sample whichever of raw, normalized,
// derivative and difference curves are populated, in that fixed order.
// Visibility is a display flag and does not filter the export.
func (s *AnalysisService) ExportTable() [][]string {
	if s.result == nil {
		return nil
	}
	return FlattenResult(s.result)
}

// FlattenResult builds the export table for any result value
func FlattenResult(result *melt.AnalysisResult) [][]string {
	type column struct {
		name   string
		values []float64
	}

	columns := []column{{name: "Temperature", values: result.Temperatures}}
	for i := range result.Samples {
		sm := &result.Samples[i]
		columns = append(columns, column{sm.Name, sm.Fluorescence})
		if sm.Normalized != nil {
			columns = append(columns, column{sm.Name + " (normalized)", sm.Normalized})
		}
		if sm.Derivative != nil {
			columns = append(columns, column{sm.Name + " (-dF/dT)", sm.Derivative})
		}
		if sm.Difference != nil {
			columns = append(columns, column{sm.Name + " (difference)", sm.Difference})
		}
	}

	table := make([][]string, 0, len(result.Temperatures)+1)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.name
	}
	table = append(table, header)

	for row := 0; row < len(result.Temperatures); row++ {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = strconv.FormatFloat(col.values[row], 'g', -1, 64)
		}
		table = append(table, cells)
	}
	return table
}
