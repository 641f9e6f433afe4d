package ports

// ResultExporter writes a flattened export table (header row first) to a
// destination path. Implementations choose the encoding.
type ResultExporter interface {
	Export(table [][]string, path string) error
}
