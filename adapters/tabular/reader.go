// Package tabular reads delimited text and spreadsheet files into the
// engine's TabularReading form.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gohrm/domain/melt"

	"github.com/xuri/excelize/v2"
)

// Reader handles reading CSV and Excel melt-curve tables. Implements
// ports.ReadingSource.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader that picks the decoder from the file extension
func NewReader(filePath string) *Reader {
	fileType := "csv"
	if ext := strings.ToLower(filepath.Ext(filePath)); ext == ".xlsx" || ext == ".xls" {
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read reads the file into a TabularReading. The first column is taken as
// the temperature field.
func (r *Reader) Read() (melt.TabularReading, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return melt.TabularReading{}, fmt.Errorf("failed to open %s file %s: %w", r.fileType, r.filePath, err)
	}
	defer f.Close()

	switch r.fileType {
	case "xlsx":
		return FromXLSX(f)
	default:
		return FromCSV(f)
	}
}

// FromCSV decodes delimited text from rd into a TabularReading
func FromCSV(rd io.Reader) (melt.TabularReading, error) {
	records, err := csv.NewReader(rd).ReadAll()
	if err != nil {
		return melt.TabularReading{}, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return FromRecords(records)
}

// FromXLSX decodes the first sheet of a spreadsheet from rd
func FromXLSX(rd io.Reader) (melt.TabularReading, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return melt.TabularReading{}, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return melt.TabularReading{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return FromRecords(rows)
}

// FromRecords converts raw string rows (header first) into a TabularReading.
// Short rows are tolerated; the missing cells stay blank and resolve as
// missing during extraction.
func FromRecords(records [][]string) (melt.TabularReading, error) {
	if len(records) < 2 {
		return melt.TabularReading{}, fmt.Errorf("input must have a header row and at least one data row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]melt.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(melt.Row, len(headers))
		for j, header := range headers {
			if j < len(rec) {
				row[header] = strings.TrimSpace(rec[j])
			}
		}
		rows = append(rows, row)
	}

	log.Printf("[TabularReader] processed table (%d columns, %d rows)", len(headers), len(rows))

	return melt.TabularReading{
		TemperatureField: headers[0],
		FieldNames:       headers,
		Rows:             rows,
	}, nil
}
