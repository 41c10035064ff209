package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poflow/internal/domain"
	"poflow/internal/export"
)

func exportRecords(t *testing.T) []domain.ExtractionRecord {
	t.Helper()
	rec, err := domain.NewExtractionRecord("po1.pdf", "s3://b/k", "proc", "PO Extractor")
	require.NoError(t, err)
	require.NoError(t, rec.AttachExtraction(domain.ExtractedFields{
		"vendor": {Value: "Acme", Confidence: 0.9},
	}, 0.9))
	require.NoError(t, rec.ApplyReview(map[string]string{"vendor": "Acme Corp"}))
	return []domain.ExtractionRecord{*rec}
}

func TestWriter_CSV(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecords(exportRecords(t)))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	assert.Equal(t, "ID", header[0])
	assert.Equal(t, "Fields", header[8])

	row := rows[1]
	assert.Equal(t, "po1.pdf", row[1])
	assert.Equal(t, "PO Extractor", row[2])
	assert.Equal(t, "REVIEWED", row[3])
	assert.Equal(t, "0.90", row[4])
	assert.NotEmpty(t, row[6]) // reviewed at
	assert.Empty(t, row[7])    // not sent

	// The fields column carries the reconciled view as JSON.
	var fields map[string]string
	require.NoError(t, json.Unmarshal([]byte(row[8]), &fields))
	assert.Equal(t, "Acme Corp", fields["vendor"])
}

func TestWriter_CSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecords(nil))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBuildWorkbook(t *testing.T) {
	data, err := export.BuildWorkbook(exportRecords(t))

	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX files are ZIP archives.
	assert.Equal(t, []byte{0x50, 0x4B}, data[:2])
}
