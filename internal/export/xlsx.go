package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"poflow/internal/domain"
)

const sheetName = "Extractions"

// BuildWorkbook returns an XLSX workbook (as bytes) with one row per
// extraction record, using the same columns as the CSV export.
func BuildWorkbook(recs []domain.ExtractionRecord) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for rowIdx := range recs {
		rec := &recs[rowIdx]
		fields, _ := json.Marshal(rec.EffectiveFields())
		values := []interface{}{
			rec.ID.String(),
			rec.Filename,
			rec.ProcessorDisplayName,
			string(rec.Status),
			rec.Confidence,
			formatTime(&rec.CreatedAt),
			formatTime(rec.ReviewedAt),
			formatTime(rec.SentAt),
			string(fields),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", rowIdx+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
