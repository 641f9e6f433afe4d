// Package export encodes the aggregator's flattened table as CSV or XLSX.
// Chart/PNG export is deliberately absent; this is data export only.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// CSVExporter writes the flattened table as delimited text. Implements
// ports.ResultExporter.
type CSVExporter struct{}

// Export writes table to path as CSV
func (CSVExporter) Export(table [][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, table)
}

// WriteCSV encodes table to w, header row first
func WriteCSV(w io.Writer, table [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table); err != nil {
		return fmt.Errorf("failed to write CSV export: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// XLSXExporter writes the flattened table as a single-sheet workbook.
// Implements ports.ResultExporter.
type XLSXExporter struct{}

// Export writes table to path as an .xlsx workbook
func (XLSXExporter) Export(table [][]string, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
