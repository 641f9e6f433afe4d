package eds

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohrm/domain/core"
)

// buildArchive zips content under the vendor's melt-curve entry path
func buildArchive(t *testing.T, entryPath, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(entryPath)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func sampleStream() string {
	lines := []string{
		"Session Name\tExperiment 42",
		"Well\tWell Position\tSample Name\tTask\tTm",
		"0\tA1\tControl\tUNKNOWN\t81.2",
		"Sample Temperatures\t60\t61\t62\t63",
		"Rn values\t100\t90\t40\t20",
		"Delta Rn Sample Temperatures\t60\t61\t62\t63",
		"Delta Rn values\t1\t2\t3\t4",
		"1\tA2\tVariant\tUNKNOWN\t80.9",
		"Sample Temperatures\t60\t61\t62\t63",
		"Rn values\t95\t85\t35\t15",
	}
	return strings.Join(lines, "\r\n")
}

func TestParseArchive_TwoRecords(t *testing.T) {
	data := buildArchive(t, "apldbio/sds/meltcuve_result.txt", sampleStream())

	reading, err := ParseArchive(data)
	require.NoError(t, err)

	assert.Equal(t, "Temperature", reading.TemperatureField)
	assert.Equal(t, []string{"Temperature", "Control", "Variant"}, reading.FieldNames)
	require.Len(t, reading.Rows, 4)

	assert.Equal(t, "60", reading.Rows[0]["Temperature"])
	assert.Equal(t, "100", reading.Rows[0]["Control"])
	assert.Equal(t, "15", reading.Rows[3]["Variant"])

	// The raw Rn channel feeds the table, never the delta channel
	assert.NotEqual(t, "1", reading.Rows[0]["Control"])
}

func TestParseArchive_EmptyNamesDisambiguate(t *testing.T) {
	lines := []string{
		"Session Name\tplate",
		"Well\tWell Position\tSample Name\tTask\tTm",
		"0\tA1\t\tUNKNOWN\t81.0",
		"Sample Temperatures\t60\t61",
		"Rn values\t10\t5",
		"0\tA1\t\tUNKNOWN\t80.5",
		"Sample Temperatures\t60\t61",
		"Rn values\t9\t4",
	}
	data := buildArchive(t, "apldbio/sds/meltcuve_result.txt", strings.Join(lines, "\n"))

	reading, err := ParseArchive(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Temperature", "Well_1", "Well_1_2"}, reading.FieldNames)
}

func TestParseArchive_LenientTokenParsing(t *testing.T) {
	lines := []string{
		"Session Name\tplate",
		"Well\tWell Position\tSample Name\tTask\tTm",
		"0\tA1\tS\tUNKNOWN\t81.0",
		"Sample Temperatures\t60\t\tbogus\t61",
		"Rn values\t10\tnope\t\t5",
	}
	data := buildArchive(t, "apldbio/sds/meltcuve_result.txt", strings.Join(lines, "\n"))

	reading, err := ParseArchive(data)
	require.NoError(t, err)
	// Malformed tokens are discarded, not fatal: two clean points remain
	require.Len(t, reading.Rows, 2)
	assert.Equal(t, "10", reading.Rows[0]["S"])
	assert.Equal(t, "5", reading.Rows[1]["S"])
}

func TestParseArchive_TrailingRecordIsKept(t *testing.T) {
	// The final record has no successor line to close it; it must still be
	// appended when the stream ends.
	lines := []string{
		"Session Name\tplate",
		"Well\tWell Position\tSample Name\tTask\tTm",
		"0\tA1\tOnly\tUNKNOWN\t81.0",
		"Sample Temperatures\t60\t61\t62",
		"Rn values\t3\t2\t1",
	}
	data := buildArchive(t, "apldbio/sds/meltcuve_result.txt", strings.Join(lines, "\n"))

	reading, err := ParseArchive(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Temperature", "Only"}, reading.FieldNames)
	assert.Len(t, reading.Rows, 3)
}

func TestParseArchive_MissingEntry(t *testing.T) {
	data := buildArchive(t, "apldbio/sds/other.txt", "irrelevant")

	_, err := ParseArchive(data)
	assert.ErrorIs(t, err, core.ErrNoMeltData)
}

func TestParseArchive_CorruptArchive(t *testing.T) {
	_, err := ParseArchive([]byte("this is not a zip file"))
	assert.ErrorIs(t, err, core.ErrArchiveDecode)
}

func TestParseArchive_EmptyStream(t *testing.T) {
	lines := []string{
		"Session Name\tplate",
		"Well\tWell Position\tSample Name\tTask\tTm",
	}
	data := buildArchive(t, "apldbio/sds/meltcuve_result.txt", strings.Join(lines, "\n"))

	_, err := ParseArchive(data)
	assert.ErrorIs(t, err, core.ErrNoSamplesParsed)
}

func TestParseArchive_LengthMismatch(t *testing.T) {
	lines := []string{
		"Session Name\tplate",
		"Well\tWell Position\tSample Name\tTask\tTm",
		"0\tA1\tFirst\tUNKNOWN\t81.0",
		"Sample Temperatures\t60\t61\t62",
		"Rn values\t3\t2\t1",
		"1\tA2\tShort\tUNKNOWN\t80.0",
		"Sample Temperatures\t60\t61",
		"Rn values\t9\t8",
	}
	data := buildArchive(t, "apldbio/sds/meltcuve_result.txt", strings.Join(lines, "\n"))

	_, err := ParseArchive(data)
	require.ErrorIs(t, err, core.ErrLengthMismatch)
	assert.Contains(t, err.Error(), "Short")
}
