package ports

import "gohrm/domain/melt"

// ReadingSource turns one external input (delimited file, spreadsheet,
// vendor archive) into the tabular form the engine consumes. The engine
// never re-reads the underlying source.
type ReadingSource interface {
	Read() (melt.TabularReading, error)
}
