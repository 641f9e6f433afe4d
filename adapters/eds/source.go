package eds

import (
	"fmt"
	"os"

	"gohrm/domain/melt"
)

// ArchiveSource reads one .eds archive from disk. Implements
// ports.ReadingSource.
type ArchiveSource struct {
	path string
}

// NewArchiveSource creates a source for the given archive path
func NewArchiveSource(path string) *ArchiveSource {
	return &ArchiveSource{path: path}
}

// Read loads the archive bytes and parses the melt-curve stream
func (s *ArchiveSource) Read() (melt.TabularReading, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return melt.TabularReading{}, fmt.Errorf("failed to read archive %s: %w", s.path, err)
	}
	return ParseArchive(data)
}
