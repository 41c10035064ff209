// Package export renders extraction history as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"poflow/internal/domain"
)

// BOM is the UTF-8 byte order mark, written before CSV data for Excel
// compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"ID",
	"Filename",
	"Processor",
	"Status",
	"Confidence",
	"Created At",
	"Reviewed At",
	"Sent At",
	"Fields",
}

// Writer wraps csv.Writer for exporting extraction records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords writes one row per record. The reconciled field view is
// serialized as JSON into the final column since each processor defines
// its own field names.
func (w *Writer) WriteRecords(recs []domain.ExtractionRecord) error {
	for i := range recs {
		if err := w.csv.Write(recordRow(&recs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered rows to the underlying writer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from a previous Write or Flush.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func recordRow(rec *domain.ExtractionRecord) []string {
	fields, _ := json.Marshal(rec.EffectiveFields())
	return []string{
		rec.ID.String(),
		rec.Filename,
		rec.ProcessorDisplayName,
		string(rec.Status),
		fmt.Sprintf("%.2f", rec.Confidence),
		formatTime(&rec.CreatedAt),
		formatTime(rec.ReviewedAt),
		formatTime(rec.SentAt),
		string(fields),
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
