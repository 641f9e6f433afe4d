// Package eds decodes melt-curve results from vendor .eds archives, which
// are zip containers holding structured-text result streams.
package eds

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"gohrm/domain/core"
	"gohrm/domain/melt"
)

// meltEntryPath is the one internal entry the parser looks up. Absence is a
// hard failure, not a fallback. The misspelling is the vendor's.
const meltEntryPath = "apldbio/sds/meltcuve_result.txt"

// Payload labels carried inside a sample record. Only the raw Rn channel
// feeds the output table; the delta channel is recognized so its lines are
// never mistaken for anything else.
const (
	labelTemperatures      = "Sample Temperatures"
	labelRnValues          = "Rn values"
	labelDeltaTemperatures = "Delta Rn Sample Temperatures"
	labelDeltaRnValues     = "Delta Rn values"
)

const sessionMarker = "Session Name"

// recordStart matches the line that opens a new sample record:
// <integer>\t<well-id>\t<name>\t<task>\t<tm-list>
var recordStart = regexp.MustCompile(`^(\d+)\t([^\t]*)\t([^\t]*)\t([^\t]*)\t(.*)$`)

// record is one in-progress sample while scanning the stream
type record struct {
	well  int
	name  string
	temps []float64
	rn    []float64
}

// ParseArchive opens a zip-format byte archive, locates the melt-curve
// result stream and rebuilds it as a TabularReading whose temperature axis
// is the first parsed sample's.
func ParseArchive(data []byte) (melt.TabularReading, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return melt.TabularReading{}, core.NewArchiveDecodeError(err)
	}

	entry := findEntry(zr, meltEntryPath)
	if entry == nil {
		return melt.TabularReading{}, core.ErrNoMeltData
	}

	rc, err := entry.Open()
	if err != nil {
		return melt.TabularReading{}, core.NewArchiveDecodeError(err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return melt.TabularReading{}, core.NewArchiveDecodeError(err)
	}

	records, err := parseStream(string(raw))
	if err != nil {
		return melt.TabularReading{}, err
	}
	log.Printf("[EDSParser] parsed %d sample records from %s", len(records), meltEntryPath)

	return buildReading(records)
}

func findEntry(zr *zip.Reader, path string) *zip.File {
	for _, f := range zr.File {
		if f.Name == path {
			return f
		}
	}
	return nil
}

// parseStream scans the normalized result text into sample records.
func parseStream(text string) ([]record, error) {
	lines := splitLines(text)
	lines = skipHeader(lines)

	var records []record
	var current *record

	for _, line := range lines {
		if m := recordStart.FindStringSubmatch(line); m != nil {
			if current != nil && len(current.temps) > 0 {
				records = append(records, *current)
			}
			well, _ := strconv.Atoi(m[1])
			current = &record{well: well, name: strings.TrimSpace(m[3])}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, labelDeltaTemperatures):
			// recognized, unused
		case strings.HasPrefix(line, labelDeltaRnValues):
			// recognized, unused
		case strings.HasPrefix(line, labelTemperatures):
			current.temps = parseFloats(strings.TrimPrefix(line, labelTemperatures))
		case strings.HasPrefix(line, labelRnValues):
			current.rn = parseFloats(strings.TrimPrefix(line, labelRnValues))
		}
	}
	if current != nil && len(current.temps) > 0 {
		records = append(records, *current)
	}

	if len(records) == 0 {
		return nil, core.ErrNoSamplesParsed
	}
	return records, nil
}

// splitLines normalizes all line terminators to \n before splitting
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// skipHeader drops the fixed-format header block: the session-name line and
// the column-header line that follows it.
func skipHeader(lines []string) []string {
	i := 0
	if i < len(lines) && strings.HasPrefix(lines[i], sessionMarker) {
		i++
	}
	if i < len(lines) {
		i++ // column-header line
	}
	return lines[i:]
}

// parseFloats tokenizes a tab-separated numeric payload, silently discarding
// empty and non-numeric tokens. A malformed token never fails the line.
func parseFloats(payload string) []float64 {
	var out []float64
	for _, tok := range strings.Split(payload, "\t") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// buildReading places every sample's raw Rn vector against the first
// sample's temperature axis. Vectors are assumed point-for-point aligned; a
// length mismatch is surfaced, never padded or truncated.
func buildReading(records []record) (melt.TabularReading, error) {
	axis := records[0].temps

	names := make([]string, len(records))
	used := make(map[string]bool)
	for i, rec := range records {
		name := rec.name
		if name == "" {
			name = fmt.Sprintf("Well_%d", rec.well+1)
		}
		if used[name] {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		used[name] = true
		names[i] = name
	}

	for i, rec := range records {
		if len(rec.rn) != len(axis) {
			return melt.TabularReading{}, core.NewLengthMismatchError(names[i], len(rec.rn), len(axis))
		}
	}

	const tempField = "Temperature"
	fields := append([]string{tempField}, names...)
	rows := make([]melt.Row, len(axis))
	for i := range axis {
		row := make(melt.Row, len(fields))
		row[tempField] = formatFloat(axis[i])
		for j, rec := range records {
			row[names[j]] = formatFloat(rec.rn[i])
		}
		rows[i] = row
	}

	return melt.TabularReading{
		TemperatureField: tempField,
		FieldNames:       fields,
		Rows:             rows,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
